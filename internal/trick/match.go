package trick

import (
	"sort"
	"strings"

	"github.com/lox/tractorbot/internal/card"
)

// holding is one distinct card within the suited portion of a hand, annotated
// with its position and how many copies remain unassigned.
type holding struct {
	card card.Card
	ord  int
	have int
	left int
}

// FindPlays returns every distinct way the suited cards can satisfy the given
// structural units, each as a flat card list. Order is deterministic: units
// are placed strongest-first onto holdings walked from the bottom of the suit
// upward. An empty unit list yields one empty play.
//
// Under LongerTuplesProtected a holding wider than a unit never contributes to
// it; the follower's longer tuples stay intact.
func FindPlays(t card.Trump, suited []card.Card, units []Unit, policy DrawPolicy) [][]card.Card {
	counts := make(map[card.Card]int, len(suited))
	for _, c := range suited {
		counts[c]++
	}
	holdings := make([]*holding, 0, len(counts))
	for c, n := range counts {
		holdings = append(holdings, &holding{card: c, ord: t.OrderOf(c), have: n, left: n})
	}
	sort.Slice(holdings, func(i, j int) bool {
		if holdings[i].ord != holdings[j].ord {
			return holdings[i].ord < holdings[j].ord
		}
		return holdings[i].card.Suit < holdings[j].card.Suit
	})

	ordered := append([]Unit(nil), units...)
	sortUnits(ordered)

	var (
		plays   [][]card.Card
		seen    = make(map[string]bool)
		current []*holding
		widths  []int
	)
	var assign func(ui int)
	assign = func(ui int) {
		if ui == len(ordered) {
			play := make([]card.Card, 0, len(current))
			for i, h := range current {
				for c := 0; c < widths[i]; c++ {
					play = append(play, h.card)
				}
			}
			t.Sort(play)
			if key := playKey(play); !seen[key] {
				seen[key] = true
				plays = append(plays, play)
			}
			return
		}
		u := ordered[ui]
		var place func(step int, prev *holding)
		place = func(step int, prev *holding) {
			if step == u.Length {
				assign(ui + 1)
				return
			}
			for _, h := range holdings {
				if h.left < u.Count {
					continue
				}
				if policy == LongerTuplesProtected && h.have > u.Count {
					continue
				}
				if step > 0 && h.ord != prev.ord+1 {
					continue
				}
				h.left -= u.Count
				current = append(current, h)
				widths = append(widths, u.Count)
				place(step+1, h)
				current = current[:len(current)-1]
				widths = widths[:len(widths)-1]
				h.left += u.Count
			}
		}
		place(0, nil)
	}
	assign(0)
	return plays
}

func playKey(play []card.Card) string {
	codes := make([]string, len(play))
	for i, c := range play {
		codes[i] = c.Code()
	}
	return strings.Join(codes, "")
}
