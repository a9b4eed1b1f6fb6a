package protocol

import (
	"errors"
	"fmt"

	"github.com/lox/tractorbot/internal/card"
	"github.com/lox/tractorbot/internal/trick"
)

// PlayerID is the server-assigned identity of a seat, stable from Initialize
// onward.
type PlayerID int64

// Player is one roster entry.
type Player struct {
	ID    PlayerID  `json:"id"`
	Name  string    `json:"name"`
	Level card.Rank `json:"level"`
}

// Phase is the stage a snapshot describes. Phases only ever move forward.
type Phase int

const (
	PhaseInitialize Phase = iota
	PhaseDraw
	PhaseExchange
	PhasePlay
)

func (p Phase) String() string {
	switch p {
	case PhaseInitialize:
		return "initialize"
	case PhaseDraw:
		return "draw"
	case PhaseExchange:
		return "exchange"
	case PhasePlay:
		return "play"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Reachable reports whether p may legally follow from: the same phase again,
// or its immediate successor.
func (p Phase) Reachable(from Phase) bool {
	return p == from || p == from+1
}

// Snapshot is the externally tagged game state pushed by the server. Exactly
// one phase field is set.
type Snapshot struct {
	Initialize *InitializePhase `json:"initialize,omitempty"`
	Draw       *DrawPhase       `json:"draw,omitempty"`
	Exchange   *ExchangePhase   `json:"exchange,omitempty"`
	Play       *PlayPhase       `json:"play,omitempty"`
}

// Phase returns which phase the snapshot carries.
func (s Snapshot) Phase() (Phase, error) {
	var (
		phase Phase
		n     int
	)
	if s.Initialize != nil {
		phase, n = PhaseInitialize, n+1
	}
	if s.Draw != nil {
		phase, n = PhaseDraw, n+1
	}
	if s.Exchange != nil {
		phase, n = PhaseExchange, n+1
	}
	if s.Play != nil {
		phase, n = PhasePlay, n+1
	}
	switch n {
	case 1:
		return phase, nil
	case 0:
		return 0, errors.New("snapshot carries no phase")
	default:
		return 0, fmt.Errorf("snapshot carries %d phases", n)
	}
}

// InitializePhase is the pre-game roster; re-pushed on every settings change.
type InitializePhase struct {
	Players []Player `json:"players"`
}

// DrawPhase covers dealing and bidding.
type DrawPhase struct {
	Players       []Player    `json:"players"`
	Hand          []card.Card `json:"hand"`
	DeckRemaining int         `json:"deck_remaining"`
	Position      int         `json:"position"`
	Bids          []BidEntry  `json:"bids"`
	Level         card.Rank   `json:"level"`
}

// BidEntry records one standing bid.
type BidEntry struct {
	Player PlayerID  `json:"player"`
	Card   card.Card `json:"card"`
	Count  int       `json:"count"`
}

// ErrNoBidsYet is returned by NextDrawer when the deck is exhausted but no
// one has bid: nothing to do but wait for the next snapshot.
var ErrNoBidsYet = errors.New("no bids yet")

// NextDrawer resolves whose turn it is to draw. While the deck holds cards it
// is the player at Position; once empty, the last bidder picks up the kitty.
func (d *DrawPhase) NextDrawer() (PlayerID, error) {
	if d.DeckRemaining > 0 {
		if d.Position < 0 || d.Position >= len(d.Players) {
			return 0, fmt.Errorf("draw position %d outside roster of %d", d.Position, len(d.Players))
		}
		return d.Players[d.Position].ID, nil
	}
	if len(d.Bids) == 0 {
		return 0, ErrNoBidsYet
	}
	return d.Bids[len(d.Bids)-1].Player, nil
}

// ExchangePhase covers the kitty swap.
type ExchangePhase struct {
	Players   []Player    `json:"players"`
	Hand      []card.Card `json:"hand"`
	Exchanger PlayerID    `json:"exchanger"`
	KittySize int         `json:"kitty_size"`
	Trump     Trump       `json:"trump"`
}

// PlayPhase covers trick play.
type PlayPhase struct {
	Players    []Player         `json:"players"`
	Hand       []card.Card      `json:"hand"`
	Trump      Trump            `json:"trump"`
	DrawPolicy trick.DrawPolicy `json:"draw_policy"`
	Trick      Trick            `json:"trick"`
}

// Format derives the constraint the current trick imposes, nil when the agent
// would lead.
func (p *PlayPhase) Format() (*trick.Format, error) {
	lead := p.Trick.LeadCards()
	if len(lead) == 0 {
		return nil, nil
	}
	t, err := p.Trump.Parse()
	if err != nil {
		return nil, err
	}
	f, err := trick.DeriveFormat(t, lead)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Trick is the current round of plays plus the queue of players still to act.
type Trick struct {
	Plays       []PlayEntry `json:"plays"`
	PlayerQueue []PlayerID  `json:"player_queue"`
}

// PlayEntry is one player's contribution to the trick.
type PlayEntry struct {
	Player PlayerID    `json:"player"`
	Cards  []card.Card `json:"cards"`
}

// NextToAct returns the player due to play. A won-but-not-advanced trick has
// an empty queue and no next player.
func (t Trick) NextToAct() (PlayerID, bool) {
	if len(t.PlayerQueue) == 0 {
		return 0, false
	}
	return t.PlayerQueue[0], true
}

// LeadCards returns the leading play, or nil before anyone has led.
func (t Trick) LeadCards() []card.Card {
	if len(t.Plays) == 0 {
		return nil
	}
	return t.Plays[0].Cards
}

// Trump is the wire form of a trump declaration. An absent suit means
// no-trump: only jokers and level-rank cards are trump.
type Trump struct {
	Rank card.Rank `json:"rank"`
	Suit string    `json:"suit,omitempty"`
}

// NewTrump converts a domain trump context to its wire form.
func NewTrump(t card.Trump) Trump {
	if t.Suit == card.Jokers {
		return Trump{Rank: t.Rank}
	}
	return Trump{Rank: t.Rank, Suit: suitCode(t.Suit)}
}

// Parse converts the wire form to the domain trump context.
func (t Trump) Parse() (card.Trump, error) {
	if t.Suit == "" {
		return card.NoTrump(t.Rank), nil
	}
	s, err := card.ParseSuit(t.Suit[0])
	if err != nil || len(t.Suit) != 1 {
		return card.Trump{}, fmt.Errorf("invalid trump suit %q", t.Suit)
	}
	return card.Trump{Rank: t.Rank, Suit: s}, nil
}

func suitCode(s card.Suit) string {
	switch s {
	case card.Spades:
		return "s"
	case card.Hearts:
		return "h"
	case card.Diamonds:
		return "d"
	case card.Clubs:
		return "c"
	default:
		return ""
	}
}
