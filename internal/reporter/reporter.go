// Package reporter streams market events to the remote controller and runs
// the commands embedded in its responses. It is the single place where the
// outbound reports and the inbound command stream meet.
package reporter

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-bridge/internal/codec"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/internal/transport"
	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"go.uber.org/zap"
)

// CommandApplier executes one remote command against the terminal.
type CommandApplier interface {
	Apply(ctx context.Context, command types.Command) error
}

// Reporter posts tick and bar events and dispatches the commands the remote
// controller returns. It is single-threaded by contract: the host delivers
// one event at a time and each report runs to completion, network round trip
// included, before the next event arrives.
type Reporter struct {
	client  *transport.Client
	applier CommandApplier
	session *Session
	log     *logger.Logger
}

// NewReporter creates a reporter over the given transport and applier.
func NewReporter(client *transport.Client, applier CommandApplier, log *logger.Logger) *Reporter {
	return &Reporter{
		client:  client,
		applier: applier,
		log:     log,
	}
}

// Initialize seeds the session with the terminal's current bar start and
// probes the remote controller. A failed probe is fatal to startup; the
// bridge must not begin streaming against an endpoint it never reached.
func (r *Reporter) Initialize(ctx context.Context, lastBarTime time.Time) error {
	r.session = NewSession(lastBarTime)

	if err := r.client.Probe(ctx); err != nil {
		return errors.Wrapf(errors.ErrCodeInitFailed, err, "controller %s unreachable", r.client.BaseURL())
	}

	r.log.Info("connected to controller",
		zap.String("url", r.client.BaseURL()),
		zap.Time("last_bar", lastBarTime),
	)

	return nil
}

// LastBarTime returns the session's last reported bar start.
func (r *Reporter) LastBarTime() time.Time {
	return r.session.LastBarTime()
}

// ReportTick posts a single price update and runs any returned commands.
func (r *Reporter) ReportTick(ctx context.Context, tick types.Tick) error {
	commands, err := r.post(ctx, transport.ReportTypeTick, codec.EncodeTick(tick))
	r.dispatch(ctx, commands)

	return err
}

// ReportBar posts a completed bar and runs any returned commands. A bar whose
// start does not advance past the session's last reported bar is skipped. The
// session advances even when the post fails: a bar gets one delivery attempt,
// never a replay.
func (r *Reporter) ReportBar(ctx context.Context, bar types.Bar) error {
	if err := bar.Validate(); err != nil {
		return err
	}

	if !r.session.AdvanceBar(bar.StartTime) {
		return nil
	}

	commands, err := r.post(ctx, transport.ReportTypeBar, codec.EncodeBar(bar))
	r.dispatch(ctx, commands)

	return err
}

// post sends one report and decodes the commands in the response body.
// A non-2xx answer still gets decoded, since the controller may embed
// commands in error bodies. A transport failure yields nothing to decode.
func (r *Reporter) post(ctx context.Context, reportType transport.ReportType, body []byte) ([]types.Command, error) {
	response, err := r.client.Send(ctx, reportType, body)
	if err != nil {
		if !errors.HasCode(err, errors.ErrCodeHTTPStatus) {
			r.log.Error("report failed",
				zap.String("type", string(reportType)),
				zap.String("url", r.client.BaseURL()),
				zap.Error(err),
			)

			return nil, err
		}

		r.log.Warn("controller returned error status",
			zap.String("type", string(reportType)),
			zap.Int("status", response.StatusCode),
			zap.Error(err),
		)
	}

	commands, parseErrs := codec.DecodeCommands(response.Body)
	for _, parseErr := range parseErrs {
		r.log.Warn("skipping malformed command", zap.Error(parseErr))
	}

	return commands, err
}

// dispatch applies each command and reports its outcome back to the
// controller as a status post. The status response is discarded; commands do
// not nest.
func (r *Reporter) dispatch(ctx context.Context, commands []types.Command) {
	for _, command := range commands {
		err := r.applier.Apply(ctx, command)
		if err != nil {
			r.log.Error("command failed",
				zap.String("signal", string(command.Signal)),
				zap.Float64("volume", command.Volume),
				zap.Error(err),
			)
		}

		outcome := types.OrderOutcome{Success: err == nil, Err: err}

		if _, sendErr := r.client.Send(ctx, transport.ReportTypeOrder, outcome.StatusBody()); sendErr != nil {
			r.log.Error("failed to report order outcome",
				zap.Bool("success", outcome.Success),
				zap.Error(sendErr),
			)
		}
	}
}
