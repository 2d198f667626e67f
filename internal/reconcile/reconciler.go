// Package reconcile maps an incoming order signal onto the minimal set of
// terminal operations needed to reach the desired position state. The model
// is single-instrument with at most one net position open at a time.
package reconcile

import (
	"context"
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
	terminalprovider "github.com/rxtech-lab/argo-bridge/internal/terminal/provider"
	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"go.uber.org/zap"
)

// volumeEpsilon bounds float drift when comparing an open position's volume
// against a requested one.
const volumeEpsilon = 1e-8

// Reconciler drives the terminal toward the state a command requests.
type Reconciler struct {
	terminal terminalprovider.TerminalProvider
	log      *logger.Logger
}

// NewReconciler creates a reconciler over the given terminal.
func NewReconciler(terminal terminalprovider.TerminalProvider, log *logger.Logger) *Reconciler {
	return &Reconciler{
		terminal: terminal,
		log:      log,
	}
}

// Apply executes a single command against the terminal.
//
// For an out signal every open position is closed. For a buy or sell signal
// the first already-matching position is kept and everything else is closed;
// a kept position must carry the requested volume, since resizing an open
// position is unsupported. If any close fails the open step is skipped.
func (r *Reconciler) Apply(ctx context.Context, command types.Command) error {
	if command.Name != types.CommandNameOrder {
		return errors.Newf(errors.ErrCodeUnknownCommand, "cannot apply command %q", command.Name)
	}

	direction, hasDirection := command.Signal.Direction()
	if !hasDirection {
		// Flat: sweep everything, exempting nothing.
		_, err := r.closeAllExcept(ctx, optional.None[types.Direction]())

		return err
	}

	kept, err := r.closeAllExcept(ctx, optional.Some(direction))
	if err != nil {
		return err
	}

	if kept.IsSome() {
		position := kept.Unwrap()
		if math.Abs(position.Volume-command.Volume) > volumeEpsilon {
			return errors.Newf(errors.ErrCodeVolumeChangeDenied,
				"cannot change volume of open position %s from %v to %v",
				position.Ticket, position.Volume, command.Volume)
		}

		return nil
	}

	ticket, err := r.terminal.SubmitOrder(ctx, direction, command.Volume)
	if err != nil {
		return err
	}

	r.log.Info("opened position",
		zap.String("ticket", ticket),
		zap.String("direction", string(direction)),
		zap.Float64("volume", command.Volume),
	)

	return nil
}

// closeAllExcept closes every open position, optionally exempting the first
// one matching the given direction. It returns the exempted position, if any.
// Close failures do not stop the sweep; the first failure is returned after
// all positions have been attempted.
func (r *Reconciler) closeAllExcept(ctx context.Context, exempt optional.Option[types.Direction]) (optional.Option[types.Position], error) {
	positions, err := r.terminal.OpenPositions(ctx)
	if err != nil {
		return optional.None[types.Position](), errors.Wrap(errors.ErrCodeCloseFailed, "failed to read open positions", err)
	}

	kept := optional.None[types.Position]()

	var firstErr error

	for _, position := range positions {
		if exempt.IsSome() && kept.IsNone() && position.Direction == exempt.Unwrap() {
			kept = optional.Some(position)

			continue
		}

		if err := r.terminal.CloseOrder(ctx, position.Ticket); err != nil {
			r.log.Error("failed to close position",
				zap.String("ticket", position.Ticket),
				zap.String("direction", string(position.Direction)),
				zap.Error(err),
			)

			if firstErr == nil {
				firstErr = err
			}

			continue
		}

		r.log.Info("closed position",
			zap.String("ticket", position.Ticket),
			zap.String("direction", string(position.Direction)),
			zap.Float64("volume", position.Volume),
		)
	}

	return kept, firstErr
}
