package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/tractorbot/internal/protocol"
)

// Transport is the slice of a session the runner drives. Satisfied by
// transport.Session.
type Transport interface {
	SendReady() error
	SendAction(a protocol.Action) error
	SendChat(text string) error
	AwaitNextState() (protocol.Snapshot, error)
}

// Runner loops the synchronous receive-decide-send cycle until the connection
// drops or a fatal error ends the run. Sends are fire-and-forget; the next
// snapshot is the only acknowledgement.
type Runner struct {
	transport Transport
	ctrl      *Controller
	clock     quartz.Clock
	delay     time.Duration
	logger    *log.Logger
}

// NewRunner wires a controller to a transport. delay spaces decisions out on
// the given clock so the agent does not act instantaneously.
func NewRunner(transport Transport, ctrl *Controller, clock quartz.Clock, delay time.Duration, logger *log.Logger) *Runner {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		transport: transport,
		ctrl:      ctrl,
		clock:     clock,
		delay:     delay,
		logger:    logger,
	}
}

// Run drives the loop until an error ends it. Fatal controller errors send a
// best-effort farewell before surfacing.
func (r *Runner) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		snap, err := r.transport.AwaitNextState()
		if err != nil {
			return err
		}

		decision, err := r.ctrl.Advance(snap)
		if err != nil {
			if chatErr := r.transport.SendChat(fmt.Sprintf("leaving: %v", err)); chatErr != nil {
				r.logger.Debug("Farewell failed", "error", chatErr)
			}
			return err
		}

		switch {
		case decision.Ready:
			r.logger.Info("Signalling ready")
			if err := r.transport.SendReady(); err != nil {
				return err
			}
		case decision.Action != nil:
			if err := r.pause(ctx); err != nil {
				return err
			}
			r.logger.Info("Acting", "action", decision.Action.String())
			if err := r.transport.SendAction(*decision.Action); err != nil {
				return err
			}
		}
	}
}

// pause waits out the think delay on the runner's clock.
func (r *Runner) pause(ctx context.Context) error {
	if r.delay <= 0 {
		return nil
	}
	fired := make(chan struct{})
	timer := r.clock.AfterFunc(r.delay, func() {
		close(fired)
	})
	defer timer.Stop()

	select {
	case <-fired:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
