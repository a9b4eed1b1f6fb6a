package agent

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/lox/tractorbot/internal/card"
	"github.com/lox/tractorbot/internal/protocol"
	"github.com/lox/tractorbot/internal/randutil"
)

const botName = "tractorbot"

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newTestController(t *testing.T) *Controller {
	t.Helper()
	ctrl, err := NewController(Config{
		Name:   botName,
		Play:   RandomLegal{Rng: randutil.New(1)},
		Logger: testLogger(),
	})
	require.NoError(t, err)
	return ctrl
}

func roster(names ...string) []protocol.Player {
	players := make([]protocol.Player, len(names))
	for i, name := range names {
		players[i] = protocol.Player{ID: protocol.PlayerID(i + 1), Name: name, Level: card.Two}
	}
	return players
}

func snapInitialize(names ...string) protocol.Snapshot {
	return protocol.Snapshot{Initialize: &protocol.InitializePhase{Players: roster(names...)}}
}

func snapDraw(d protocol.DrawPhase) protocol.Snapshot {
	return protocol.Snapshot{Draw: &d}
}

func snapExchange(e protocol.ExchangePhase) protocol.Snapshot {
	return protocol.Snapshot{Exchange: &e}
}

func snapPlay(p protocol.PlayPhase) protocol.Snapshot {
	return protocol.Snapshot{Play: &p}
}

func TestPhaseMonotonicity(t *testing.T) {
	play := protocol.PlayPhase{Players: roster("alice", botName)}
	exchange := protocol.ExchangePhase{Players: roster("alice", botName), Exchanger: 1}
	draw := protocol.DrawPhase{Players: roster("alice", botName), DeckRemaining: 1}

	tests := []struct {
		name    string
		snaps   []protocol.Snapshot
		failAt  int
		current protocol.Phase
		got     protocol.Phase
	}{
		{
			name:   "full forward run",
			snaps:  []protocol.Snapshot{snapInitialize("alice", botName), snapDraw(draw), snapExchange(exchange), snapPlay(play), snapPlay(play)},
			failAt: -1,
		},
		{
			name:   "repeated phases allowed",
			snaps:  []protocol.Snapshot{snapInitialize("alice", botName), snapInitialize("alice", botName), snapDraw(draw), snapDraw(draw)},
			failAt: -1,
		},
		{
			name:    "play before draw",
			snaps:   []protocol.Snapshot{snapInitialize("alice", botName), snapPlay(play)},
			failAt:  1,
			current: protocol.PhaseInitialize,
			got:     protocol.PhasePlay,
		},
		{
			name:    "exchange straight from initialize",
			snaps:   []protocol.Snapshot{snapExchange(exchange)},
			failAt:  0,
			current: protocol.PhaseInitialize,
			got:     protocol.PhaseExchange,
		},
		{
			name:    "backwards to initialize",
			snaps:   []protocol.Snapshot{snapInitialize("alice", botName), snapDraw(draw), snapInitialize("alice", botName)},
			failAt:  2,
			current: protocol.PhaseDraw,
			got:     protocol.PhaseInitialize,
		},
		{
			name:    "skip from draw to play",
			snaps:   []protocol.Snapshot{snapInitialize("alice", botName), snapDraw(draw), snapPlay(play)},
			failAt:  2,
			current: protocol.PhaseDraw,
			got:     protocol.PhasePlay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newTestController(t)
			for i, snap := range tt.snaps {
				_, err := ctrl.Advance(snap)
				if i == tt.failAt {
					var pe *PhaseError
					require.ErrorAs(t, err, &pe)
					require.Equal(t, tt.current, pe.Current)
					require.Equal(t, tt.got, pe.Got)
					return
				}
				require.NoError(t, err, "snapshot %d", i)
			}
			require.Equal(t, -1, tt.failAt)
		})
	}
}

func TestAdvanceRejectsEmptySnapshot(t *testing.T) {
	ctrl := newTestController(t)
	_, err := ctrl.Advance(protocol.Snapshot{})
	require.Error(t, err)
}

func TestReadySentOnce(t *testing.T) {
	ctrl := newTestController(t)

	// Not in the roster yet: wait.
	d, err := ctrl.Advance(snapInitialize("alice", "bob"))
	require.NoError(t, err)
	require.False(t, d.Ready)

	d, err = ctrl.Advance(snapInitialize("alice", botName))
	require.NoError(t, err)
	require.True(t, d.Ready)

	// Settings changes re-push the snapshot; ready is not repeated.
	d, err = ctrl.Advance(snapInitialize("alice", botName))
	require.NoError(t, err)
	require.False(t, d.Ready)
	require.Nil(t, d.Action)
}

func TestDuplicateNamesUseFirstMatch(t *testing.T) {
	ctrl := newTestController(t)

	_, err := ctrl.Advance(snapInitialize(botName, botName))
	require.NoError(t, err)

	// The first roster entry owns ID 1; its draw turn is ours.
	d, err := ctrl.Advance(snapDraw(protocol.DrawPhase{
		Players:       roster(botName, botName),
		DeckRemaining: 4,
		Position:      0,
	}))
	require.NoError(t, err)
	require.NotNil(t, d.Action)
	require.NotNil(t, d.Action.DrawCard)
}

func TestDrawTurns(t *testing.T) {
	players := roster("alice", botName, "carol", "dave")

	tests := []struct {
		name     string
		draw     protocol.DrawPhase
		wantDraw bool
		wantErr  bool
	}{
		{
			name:     "our position draws",
			draw:     protocol.DrawPhase{Players: players, DeckRemaining: 10, Position: 1},
			wantDraw: true,
		},
		{
			name: "someone else draws",
			draw: protocol.DrawPhase{Players: players, DeckRemaining: 10, Position: 2},
		},
		{
			name: "deck empty with no bids waits",
			draw: protocol.DrawPhase{Players: players, DeckRemaining: 0},
		},
		{
			name: "deck empty and another player bid",
			draw: protocol.DrawPhase{
				Players: players,
				Bids:    []protocol.BidEntry{{Player: 3, Card: card.MustParseAll("2h")[0], Count: 1}},
			},
		},
		{
			name: "deck empty and our bid stands",
			draw: protocol.DrawPhase{
				Players: players,
				Bids:    []protocol.BidEntry{{Player: 2, Card: card.MustParseAll("2s")[0], Count: 1}},
			},
			wantDraw: true,
		},
		{
			name:    "position outside roster is fatal",
			draw:    protocol.DrawPhase{Players: players, DeckRemaining: 10, Position: 9},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newTestController(t)
			_, err := ctrl.Advance(snapInitialize("alice", botName, "carol", "dave"))
			require.NoError(t, err)

			d, err := ctrl.Advance(snapDraw(tt.draw))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantDraw {
				require.NotNil(t, d.Action)
				require.NotNil(t, d.Action.DrawCard)
			} else {
				require.Nil(t, d.Action)
			}
		})
	}
}

type scriptedBid struct {
	bid *protocol.Bid
}

func (s scriptedBid) Bid(*protocol.DrawPhase) (*protocol.Bid, error) {
	return s.bid, nil
}

func TestBidStrategyConsulted(t *testing.T) {
	bid := &protocol.Bid{Card: card.MustParseAll("2h")[0], Count: 2}
	ctrl, err := NewController(Config{
		Name:   botName,
		Play:   RandomLegal{Rng: randutil.New(1)},
		Bid:    scriptedBid{bid: bid},
		Logger: testLogger(),
	})
	require.NoError(t, err)

	_, err = ctrl.Advance(snapInitialize("alice", botName))
	require.NoError(t, err)

	d, err := ctrl.Advance(snapDraw(protocol.DrawPhase{
		Players:       roster("alice", botName),
		DeckRemaining: 10,
		Position:      0,
	}))
	require.NoError(t, err)
	require.NotNil(t, d.Action)
	require.Equal(t, bid, d.Action.Bid)
}

func TestExchangeDefaultRefusesKitty(t *testing.T) {
	ctrl := newTestController(t)
	_, err := ctrl.Advance(snapInitialize("alice", botName))
	require.NoError(t, err)
	_, err = ctrl.Advance(snapDraw(protocol.DrawPhase{Players: roster("alice", botName), DeckRemaining: 1, Position: 0}))
	require.NoError(t, err)

	// Someone else exchanging is none of our business.
	d, err := ctrl.Advance(snapExchange(protocol.ExchangePhase{
		Players:   roster("alice", botName),
		Exchanger: 1,
		KittySize: 8,
	}))
	require.NoError(t, err)
	require.Nil(t, d.Action)

	// Holding the kitty ourselves is an unsupported path.
	_, err = ctrl.Advance(snapExchange(protocol.ExchangePhase{
		Players:   roster("alice", botName),
		Exchanger: 2,
		KittySize: 8,
	}))
	require.ErrorIs(t, err, ErrHoldingKitty)
}

type scriptedExchange struct {
	cards []card.Card
}

func (s scriptedExchange) Exchange(*protocol.ExchangePhase) ([]card.Card, error) {
	return s.cards, nil
}

func TestExchangeStrategyBuriesKitty(t *testing.T) {
	buried := card.MustParseAll("3c4c5c6c7c8c9cTc")
	ctrl, err := NewController(Config{
		Name:     botName,
		Play:     RandomLegal{Rng: randutil.New(1)},
		Exchange: scriptedExchange{cards: buried},
		Logger:   testLogger(),
	})
	require.NoError(t, err)

	_, err = ctrl.Advance(snapInitialize("alice", botName))
	require.NoError(t, err)
	_, err = ctrl.Advance(snapDraw(protocol.DrawPhase{Players: roster("alice", botName), DeckRemaining: 1, Position: 0}))
	require.NoError(t, err)

	d, err := ctrl.Advance(snapExchange(protocol.ExchangePhase{
		Players:   roster("alice", botName),
		Exchanger: 2,
		KittySize: 8,
	}))
	require.NoError(t, err)
	require.NotNil(t, d.Action)
	require.NotNil(t, d.Action.Exchange)
	require.Equal(t, buried, d.Action.Exchange.Cards)

	// A short bury is a strategy bug, not a legal move.
	ctrl2, err := NewController(Config{
		Name:     botName,
		Play:     RandomLegal{Rng: randutil.New(1)},
		Exchange: scriptedExchange{cards: buried[:3]},
		Logger:   testLogger(),
	})
	require.NoError(t, err)
	_, err = ctrl2.Advance(snapInitialize("alice", botName))
	require.NoError(t, err)
	_, err = ctrl2.Advance(snapDraw(protocol.DrawPhase{Players: roster("alice", botName), DeckRemaining: 1, Position: 0}))
	require.NoError(t, err)
	_, err = ctrl2.Advance(snapExchange(protocol.ExchangePhase{
		Players:   roster("alice", botName),
		Exchanger: 2,
		KittySize: 8,
	}))
	require.Error(t, err)
}

func advanceToPlay(t *testing.T, ctrl *Controller) {
	t.Helper()
	names := []string{"alice", botName, "carol", "dave"}
	_, err := ctrl.Advance(snapInitialize(names...))
	require.NoError(t, err)
	_, err = ctrl.Advance(snapDraw(protocol.DrawPhase{Players: roster(names...), DeckRemaining: 1, Position: 0}))
	require.NoError(t, err)
	_, err = ctrl.Advance(snapExchange(protocol.ExchangePhase{Players: roster(names...), Exchanger: 1, KittySize: 8}))
	require.NoError(t, err)
}

func TestPlayWaitsOutOfTurn(t *testing.T) {
	ctrl := newTestController(t)
	advanceToPlay(t, ctrl)

	// Won but not advanced: empty queue, nothing to do.
	d, err := ctrl.Advance(snapPlay(protocol.PlayPhase{
		Players: roster("alice", botName, "carol", "dave"),
		Trump:   protocol.Trump{Rank: card.Two, Suit: "h"},
	}))
	require.NoError(t, err)
	require.Nil(t, d.Action)

	// Someone else to act.
	d, err = ctrl.Advance(snapPlay(protocol.PlayPhase{
		Players: roster("alice", botName, "carol", "dave"),
		Trump:   protocol.Trump{Rank: card.Two, Suit: "h"},
		Trick:   protocol.Trick{PlayerQueue: []protocol.PlayerID{3, 4}},
	}))
	require.NoError(t, err)
	require.Nil(t, d.Action)
}

func TestPlayFollowsFormat(t *testing.T) {
	ctrl := newTestController(t)
	advanceToPlay(t, ctrl)

	d, err := ctrl.Advance(snapPlay(protocol.PlayPhase{
		Players: roster("alice", botName, "carol", "dave"),
		Hand:    card.MustParseAll("3s7s7sKh"),
		Trump:   protocol.Trump{Rank: card.Two, Suit: "h"},
		Trick: protocol.Trick{
			Plays:       []protocol.PlayEntry{{Player: 1, Cards: card.MustParseAll("9s9s")}},
			PlayerQueue: []protocol.PlayerID{2, 3, 4},
		},
	}))
	require.NoError(t, err)
	require.NotNil(t, d.Action)
	require.NotNil(t, d.Action.PlayCards)
	require.ElementsMatch(t, card.MustParseAll("7s7s"), d.Action.PlayCards.Cards)
}

func TestPlayLeadsWhenTrickOpen(t *testing.T) {
	ctrl := newTestController(t)
	advanceToPlay(t, ctrl)

	hand := card.MustParseAll("3s7s7sKh")
	d, err := ctrl.Advance(snapPlay(protocol.PlayPhase{
		Players: roster("alice", botName, "carol", "dave"),
		Hand:    hand,
		Trump:   protocol.Trump{Rank: card.Two, Suit: "h"},
		Trick:   protocol.Trick{PlayerQueue: []protocol.PlayerID{2, 3, 4, 1}},
	}))
	require.NoError(t, err)
	require.NotNil(t, d.Action)
	require.NotNil(t, d.Action.PlayCards)
	require.Len(t, d.Action.PlayCards.Cards, 1)
	require.Contains(t, hand, d.Action.PlayCards.Cards[0])
}

func TestNewControllerValidation(t *testing.T) {
	_, err := NewController(Config{Play: RandomLegal{Rng: randutil.New(1)}})
	require.Error(t, err)

	_, err = NewController(Config{Name: botName})
	require.Error(t, err)
}
