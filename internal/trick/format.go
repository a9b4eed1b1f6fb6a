// Package trick derives trick formats from led cards and computes the card
// combinations a follower is required, or allowed, to play.
package trick

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lox/tractorbot/internal/card"
)

// Unit is one atomic shape inside a trick format: Count copies each of Length
// consecutive positions. A single is 1x1, a pair 2x1, a two-pair tractor 2x2.
type Unit struct {
	Count  int
	Length int
}

// Size returns the number of cards the unit covers.
func (u Unit) Size() int {
	return u.Count * u.Length
}

func (u Unit) String() string {
	switch {
	case u.Count == 1 && u.Length == 1:
		return "single"
	case u.Length == 1 && u.Count == 2:
		return "pair"
	case u.Length == 1 && u.Count == 3:
		return "triple"
	case u.Length == 1:
		return fmt.Sprintf("%d-tuple", u.Count)
	default:
		return fmt.Sprintf("%dx%d tractor", u.Count, u.Length)
	}
}

// unitStronger orders units for canonical display and match priority: bigger
// covers first, then wider, then longer.
func unitStronger(a, b Unit) bool {
	if a.Size() != b.Size() {
		return a.Size() > b.Size()
	}
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return a.Length > b.Length
}

func sortUnits(units []Unit) {
	sort.Slice(units, func(i, j int) bool { return unitStronger(units[i], units[j]) })
}

// Format is the constraint a leading play imposes on followers: the effective
// suit to follow, the trump context it was derived under, and the unit shapes
// composing the lead. Units are held strongest-first.
type Format struct {
	Suit  card.Suit
	Trump card.Trump
	Units []Unit
}

// Size returns the total number of cards the format requires.
func (f Format) Size() int {
	n := 0
	for _, u := range f.Units {
		n += u.Size()
	}
	return n
}

func (f Format) String() string {
	parts := make([]string, len(f.Units))
	for i, u := range f.Units {
		parts[i] = u.String()
	}
	return fmt.Sprintf("%s: %s", f.Suit, strings.Join(parts, " + "))
}

// DeriveFormat computes the format imposed by a led set of cards. All led
// cards must share one effective suit; the server never relays a mixed lead.
// Identical cards group into tuples, and equal-width tuples on consecutive
// positions merge into tractors. Cards on the same position that are not
// identical (off-suit level cards) never merge.
func DeriveFormat(t card.Trump, lead []card.Card) (Format, error) {
	if len(lead) == 0 {
		return Format{}, fmt.Errorf("derive format: empty lead")
	}

	suit := t.EffectiveSuit(lead[0])
	counts := make(map[card.Card]int, len(lead))
	for _, c := range lead {
		if s := t.EffectiveSuit(c); s != suit {
			return Format{}, fmt.Errorf("derive format: lead mixes %s and %s", suit, s)
		}
		counts[c]++
	}

	type group struct {
		ord   int
		count int
		suit  card.Suit
	}
	groups := make([]group, 0, len(counts))
	for c, n := range counts {
		groups = append(groups, group{ord: t.OrderOf(c), count: n, suit: c.Suit})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].ord != groups[j].ord {
			return groups[i].ord < groups[j].ord
		}
		return groups[i].suit < groups[j].suit
	})

	var units []Unit
	for i := 0; i < len(groups); {
		run := 1
		for i+run < len(groups) &&
			groups[i+run].count == groups[i].count &&
			groups[i+run].ord == groups[i+run-1].ord+1 {
			run++
		}
		if groups[i].count >= 2 && run >= 2 {
			units = append(units, Unit{Count: groups[i].count, Length: run})
		} else {
			for j := 0; j < run; j++ {
				units = append(units, Unit{Count: groups[i].count, Length: 1})
			}
		}
		i += run
	}
	sortUnits(units)

	return Format{Suit: suit, Trump: t, Units: units}, nil
}
