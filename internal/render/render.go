// Package render styles cards and tricks for console output.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/tractorbot/internal/card"
	"github.com/lox/tractorbot/internal/protocol"
)

// Static styles for card and roster elements
var (
	TrumpCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	RedCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	BlackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	PlayerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4"))
)

// Card renders a single card: trump cards gold, red suits red.
func Card(t card.Trump, c card.Card) string {
	switch {
	case t.IsTrump(c):
		return TrumpCardStyle.Render(c.String())
	case c.Suit.IsRed():
		return RedCardStyle.Render(c.String())
	default:
		return BlackCardStyle.Render(c.String())
	}
}

// Cards renders a play as a bracketed list.
func Cards(t card.Trump, cards []card.Card) string {
	if len(cards) == 0 {
		return ""
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = Card(t, c)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Trick renders one line per play, resolving player names from the roster.
func Trick(t card.Trump, tr protocol.Trick, players []protocol.Player) string {
	names := make(map[protocol.PlayerID]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}

	var b strings.Builder
	for i, play := range tr.Plays {
		if i > 0 {
			b.WriteByte('\n')
		}
		name := names[play.Player]
		if name == "" {
			name = fmt.Sprintf("player %d", play.Player)
		}
		fmt.Fprintf(&b, "%s: %s", PlayerStyle.Render(name), Cards(t, play.Cards))
	}
	return b.String()
}
