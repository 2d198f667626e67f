// Package controller implements the remote side of the bridge protocol: an
// HTTP server that receives tick and bar reports, consults a Policy, and
// embeds the resulting commands in its response bodies.
package controller

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bridge/internal/codec"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/internal/types"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// OrderOutcome is a recorded status report from the bridge.
type OrderOutcome struct {
	Success bool
	Time    time.Time
}

// Server accepts bridge reports on /report and answers with policy commands.
// At most one order is in flight at a time: once a command has been embedded
// in a response, new policy decisions are dropped until the bridge posts the
// order's outcome.
type Server struct {
	mu sync.Mutex

	httpServer *http.Server
	listener   net.Listener
	policy     Policy
	log        *logger.Logger

	orderInFlight bool
	outcomes      []OrderOutcome
}

// NewServer creates a controller server around the given policy.
func NewServer(policy Policy, log *logger.Logger) *Server {
	return &Server{
		policy: policy,
		log:    log,
	}
}

// Start starts listening on the given address. An empty address or ":0"
// picks a random available port.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listener = listener

	router := mux.NewRouter()
	router.HandleFunc("/report", s.handleReport).Methods("GET", "POST")

	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			s.log.Error("controller server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Address returns the address the server is listening on.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// ReportURL returns the full URL bridges should report to.
func (s *Server) ReportURL() string {
	return "http://" + s.Address() + "/report"
}

// Outcomes returns the order outcomes reported so far.
func (s *Server) Outcomes() []OrderOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]OrderOutcome(nil), s.outcomes...)
}

// OrderInFlight reports whether a command is awaiting its status report.
func (s *Server) OrderInFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.orderInFlight
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	reportType := r.URL.Query().Get("type")

	// No type is the connectivity probe.
	if reportType == "" {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Connected"))

		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)

		return
	}

	switch reportType {
	case "tick":
		s.handleTick(w, r)
	case "bar":
		s.handleBar(w, r)
	case "order":
		s.handleOrderStatus(w, r)
	default:
		http.Error(w, "Invalid type", http.StatusBadRequest)
	}
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	tickTS, err := strconv.ParseInt(r.PostFormValue("tick_ts"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)

		return
	}

	price, err := strconv.ParseFloat(r.PostFormValue("price"), 64)
	if err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)

		return
	}

	tick := types.Tick{Time: time.Unix(tickTS, 0).UTC(), Price: price}
	s.log.Debug("tick reported", zap.Time("time", tick.Time), zap.Float64("price", tick.Price))

	s.respond(w, s.queueCommand(s.policy.OnTick(tick)))
}

func (s *Server) handleBar(w http.ResponseWriter, r *http.Request) {
	startTS, err := strconv.ParseInt(r.PostFormValue("start_ts"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)

		return
	}

	fields := make(map[string]float64, 5)

	for _, key := range []string{"open_", "high", "low", "close", "volume"} {
		value, err := strconv.ParseFloat(r.PostFormValue(key), 64)
		if err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)

			return
		}

		fields[key] = value
	}

	bar := types.Bar{
		StartTime: time.Unix(startTS, 0).UTC(),
		Open:      fields["open_"],
		High:      fields["high"],
		Low:       fields["low"],
		Close:     fields["close"],
		Volume:    fields["volume"],
	}

	if err := bar.Validate(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)

		return
	}

	s.log.Debug("bar reported", zap.Time("start", bar.StartTime), zap.Float64("close", bar.Close))

	s.respond(w, s.queueCommand(s.policy.OnBar(bar)))
}

func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	status := r.PostFormValue("status")
	if status != "success" && status != "error" {
		http.Error(w, "Invalid form", http.StatusBadRequest)

		return
	}

	s.mu.Lock()
	s.orderInFlight = false
	s.outcomes = append(s.outcomes, OrderOutcome{Success: status == "success", Time: time.Now()})
	s.mu.Unlock()

	s.log.Info("order outcome reported", zap.String("status", status))

	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte("Reported"))
}

// queueCommand admits a policy decision if no order is awaiting its outcome.
// A dropped decision is logged; the bridge will get another chance on the
// next event.
func (s *Server) queueCommand(decision optional.Option[types.Command]) optional.Option[types.Command] {
	if decision.IsNone() {
		return decision
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.orderInFlight {
		s.log.Warn("order already being fulfilled, dropping command",
			zap.String("signal", string(decision.Unwrap().Signal)),
		)

		return optional.None[types.Command]()
	}

	s.orderInFlight = true

	return decision
}

func (s *Server) respond(w http.ResponseWriter, command optional.Option[types.Command]) {
	w.WriteHeader(http.StatusCreated)

	if command.IsSome() {
		_, _ = w.Write(codec.EncodeCommands([]types.Command{command.Unwrap()}))

		return
	}

	_, _ = w.Write([]byte("Reported"))
}
