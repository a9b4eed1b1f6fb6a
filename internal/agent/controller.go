// Package agent drives the phase state machine: it interprets each server
// snapshot against the current phase and decides whether to signal readiness,
// emit an action, or wait.
package agent

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/tractorbot/internal/protocol"
	"github.com/lox/tractorbot/internal/render"
)

// PhaseError reports a snapshot that is not reachable from the current phase:
// either a protocol mismatch or a game path the agent does not support, such
// as joining mid-game. Never retried.
type PhaseError struct {
	Current  protocol.Phase
	Got      protocol.Phase
	Snapshot protocol.Snapshot
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("unexpected %s snapshot while in %s", e.Got, e.Current)
}

// Decision is the controller's verdict on one snapshot. The zero value means
// wait for the next snapshot.
type Decision struct {
	Ready  bool
	Action *protocol.Action
}

func (d Decision) String() string {
	switch {
	case d.Ready:
		return "ready"
	case d.Action != nil:
		return d.Action.String()
	default:
		return "wait"
	}
}

// Config assembles a controller. Nil strategies fall back to the defaults:
// never bid, refuse the kitty, and random legal plays need an explicit rng so
// Play has no default.
type Config struct {
	Name     string
	Bid      BidStrategy
	Exchange ExchangeStrategy
	Play     PlayStrategy
	Logger   *log.Logger
}

// Controller walks the Initialize -> Draw -> Exchange -> Play machine,
// strictly forward, driven only by server snapshots.
type Controller struct {
	name     string
	bid      BidStrategy
	exchange ExchangeStrategy
	play     PlayStrategy
	logger   *log.Logger

	phase     protocol.Phase
	self      protocol.PlayerID
	selfKnown bool
	readySent bool
}

// NewController builds a controller starting in the Initialize phase.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Name == "" {
		return nil, errors.New("agent name required")
	}
	if cfg.Play == nil {
		return nil, errors.New("play strategy required")
	}
	if cfg.Bid == nil {
		cfg.Bid = NeverBid{}
	}
	if cfg.Exchange == nil {
		cfg.Exchange = NoExchange{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Controller{
		name:     cfg.Name,
		bid:      cfg.Bid,
		exchange: cfg.Exchange,
		play:     cfg.Play,
		logger:   cfg.Logger,
		phase:    protocol.PhaseInitialize,
	}, nil
}

// Phase returns the phase the controller last accepted.
func (c *Controller) Phase() protocol.Phase {
	return c.phase
}

// Advance feeds one snapshot through the state machine. A snapshot whose
// phase is not reachable from the current one is a fatal PhaseError.
func (c *Controller) Advance(snap protocol.Snapshot) (Decision, error) {
	phase, err := snap.Phase()
	if err != nil {
		return Decision{}, err
	}
	if !phase.Reachable(c.phase) {
		return Decision{}, &PhaseError{Current: c.phase, Got: phase, Snapshot: snap}
	}
	if phase != c.phase {
		c.logger.Info("Phase change", "from", c.phase, "to", phase)
		c.phase = phase
	}

	switch phase {
	case protocol.PhaseInitialize:
		return c.advanceInitialize(snap.Initialize)
	case protocol.PhaseDraw:
		return c.advanceDraw(snap.Draw)
	case protocol.PhaseExchange:
		return c.advanceExchange(snap.Exchange)
	default:
		return c.advancePlay(snap.Play)
	}
}

// advanceInitialize signals readiness once, as soon as the agent finds itself
// in the roster. Settings changes re-push Initialize snapshots; those wait.
func (c *Controller) advanceInitialize(init *protocol.InitializePhase) (Decision, error) {
	if !c.resolveSelf(init.Players) {
		return Decision{}, nil
	}
	if c.readySent {
		return Decision{}, nil
	}
	c.readySent = true
	return Decision{Ready: true}, nil
}

// advanceDraw draws when it is the agent's turn and otherwise waits. The one
// expected transient is the deck running out before anyone bids.
func (c *Controller) advanceDraw(d *protocol.DrawPhase) (Decision, error) {
	c.resolveSelf(d.Players)

	bid, err := c.bid.Bid(d)
	if err != nil {
		return Decision{}, fmt.Errorf("bid strategy: %w", err)
	}
	if bid != nil {
		return Decision{Action: &protocol.Action{Bid: bid}}, nil
	}

	next, err := d.NextDrawer()
	if errors.Is(err, protocol.ErrNoBidsYet) {
		c.logger.Debug("Waiting for a bid")
		return Decision{}, nil
	}
	if err != nil {
		return Decision{}, err
	}
	if c.selfKnown && next == c.self {
		return Decision{Action: &protocol.Action{DrawCard: &protocol.DrawCard{}}}, nil
	}
	return Decision{}, nil
}

// advanceExchange waits unless the agent itself holds the kitty, in which
// case the exchange strategy decides. The default refuses and aborts the run.
func (c *Controller) advanceExchange(e *protocol.ExchangePhase) (Decision, error) {
	c.resolveSelf(e.Players)

	if !c.selfKnown || e.Exchanger != c.self {
		return Decision{}, nil
	}
	buried, err := c.exchange.Exchange(e)
	if err != nil {
		return Decision{}, fmt.Errorf("exchange strategy: %w", err)
	}
	if len(buried) != e.KittySize {
		return Decision{}, fmt.Errorf("exchange strategy buried %d cards, kitty holds %d", len(buried), e.KittySize)
	}
	return Decision{Action: &protocol.Action{Exchange: &protocol.Exchange{Cards: buried}}}, nil
}

// advancePlay acts only when the trick's queue puts the agent first. A trick
// that is won but not yet advanced has no next player and nothing to do.
func (c *Controller) advancePlay(p *protocol.PlayPhase) (Decision, error) {
	c.resolveSelf(p.Players)

	trump, trumpErr := p.Trump.Parse()

	next, ok := p.Trick.NextToAct()
	if !ok {
		if len(p.Trick.Plays) > 0 && trumpErr == nil {
			c.logger.Debug("Trick complete", "trick", render.Trick(trump, p.Trick, p.Players))
		}
		return Decision{}, nil
	}
	if !c.selfKnown || next != c.self {
		return Decision{}, nil
	}
	cards, err := c.play.Play(p)
	if err != nil {
		return Decision{}, fmt.Errorf("play strategy: %w", err)
	}
	if trumpErr == nil {
		c.logger.Debug("Resolved play",
			"hand", render.Cards(trump, p.Hand),
			"cards", render.Cards(trump, cards))
	}
	return Decision{Action: &protocol.Action{PlayCards: &protocol.PlayCards{Cards: cards}}}, nil
}

// resolveSelf locates the agent in the roster by name and caches the ID from
// the first match. Name collisions are tolerated with a warning since the
// wire carries no unique token.
func (c *Controller) resolveSelf(players []protocol.Player) bool {
	if c.selfKnown {
		return true
	}
	matches := 0
	for _, p := range players {
		if p.Name != c.name {
			continue
		}
		if matches == 0 {
			c.self = p.ID
			c.selfKnown = true
		}
		matches++
	}
	if matches > 1 {
		c.logger.Warn("Name appears more than once in the roster, using the first match",
			"name", c.name, "matches", matches)
	}
	return c.selfKnown
}
