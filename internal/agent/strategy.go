package agent

import (
	"errors"
	rand "math/rand/v2"

	"github.com/lox/tractorbot/internal/card"
	"github.com/lox/tractorbot/internal/protocol"
	"github.com/lox/tractorbot/internal/trick"
)

// BidStrategy decides whether to declare trump on a draw snapshot. A nil bid
// means pass.
type BidStrategy interface {
	Bid(d *protocol.DrawPhase) (*protocol.Bid, error)
}

// ExchangeStrategy picks the cards to bury when the agent holds the kitty.
type ExchangeStrategy interface {
	Exchange(e *protocol.ExchangePhase) ([]card.Card, error)
}

// PlayStrategy chooses the cards for the agent's turn in a trick.
type PlayStrategy interface {
	Play(p *protocol.PlayPhase) ([]card.Card, error)
}

// NeverBid passes on every draw snapshot.
type NeverBid struct{}

func (NeverBid) Bid(*protocol.DrawPhase) (*protocol.Bid, error) {
	return nil, nil
}

// ErrHoldingKitty is returned by NoExchange when the agent somehow wins the
// bid, an unsupported game path.
var ErrHoldingKitty = errors.New("holding the kitty is not supported")

// NoExchange refuses the kitty.
type NoExchange struct{}

func (NoExchange) Exchange(*protocol.ExchangePhase) ([]card.Card, error) {
	return nil, ErrHoldingKitty
}

// RandomLegal resolves a legal play for the current trick, choosing uniformly
// wherever the format leaves freedom. Policy, when set, overrides the draw
// policy announced in the snapshot.
type RandomLegal struct {
	Rng    *rand.Rand
	Policy *trick.DrawPolicy
}

func (s RandomLegal) Play(p *protocol.PlayPhase) ([]card.Card, error) {
	format, err := p.Format()
	if err != nil {
		return nil, err
	}
	policy := p.DrawPolicy
	if s.Policy != nil {
		policy = *s.Policy
	}
	return trick.Resolve(card.NewHand(p.Hand), format, policy, s.Rng)
}
