package trick

import (
	"fmt"
	"sort"
	"strings"
)

// DrawPolicy selects which weakened forms of a trick format a follower can be
// held to when the exact shapes are not in their hand.
type DrawPolicy int

const (
	// FreeUse forces every partial structure the follower holds, down to
	// bare pairs inside broken tractors.
	FreeUse DrawPolicy = iota
	// NoFormatBasedDraw only ever forces the exact format; failing that,
	// any suited cards do.
	NoFormatBasedDraw
	// LongerTuplesProtected works like FreeUse except that tuples held
	// wider than a required shape are never broken to fill it.
	LongerTuplesProtected
)

func (p DrawPolicy) String() string {
	switch p {
	case FreeUse:
		return "free_use"
	case NoFormatBasedDraw:
		return "no_format_based_draw"
	case LongerTuplesProtected:
		return "longer_tuples_protected"
	default:
		return fmt.Sprintf("DrawPolicy(%d)", int(p))
	}
}

// ParseDrawPolicy parses the wire and config form of a draw policy.
func ParseDrawPolicy(s string) (DrawPolicy, error) {
	switch s {
	case "free_use", "":
		return FreeUse, nil
	case "no_format_based_draw":
		return NoFormatBasedDraw, nil
	case "longer_tuples_protected":
		return LongerTuplesProtected, nil
	default:
		return 0, fmt.Errorf("unknown draw policy %q", s)
	}
}

func (p DrawPolicy) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *DrawPolicy) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDrawPolicy(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Decompositions enumerates the unit-shape lists a follower can be held to,
// strongest first. Each list contains only structural units (width >= 2);
// cards not covered by a list are free to be anything suited. The final
// element is always the empty list, which any hand satisfies.
//
// FreeUse and LongerTuplesProtected walk the full weakening lattice: tractors
// split along their length, tuples shed width one card at a time. Protection
// is applied later, when shapes are matched against the hand.
// NoFormatBasedDraw stops at the exact format.
func Decompositions(units []Unit, policy DrawPolicy) [][]Unit {
	base := structural(units)
	if len(base) == 0 {
		return [][]Unit{{}}
	}
	if policy == NoFormatBasedDraw {
		return [][]Unit{base, {}}
	}

	seen := make(map[string][]Unit)
	var visit func(us []Unit)
	visit = func(us []Unit) {
		us = structural(us)
		key := unitsKey(us)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = us
		for i, u := range us {
			if u.Length >= 2 {
				for k := 1; k <= u.Length/2; k++ {
					visit(replaceUnit(us, i, Unit{u.Count, u.Length - k}, Unit{u.Count, k}))
				}
			}
			if u.Count >= 2 {
				visit(replaceUnit(us, i, Unit{u.Count - 1, u.Length}, Unit{1, u.Length}))
			}
		}
	}
	visit(base)

	out := make([][]Unit, 0, len(seen))
	for _, us := range seen {
		out = append(out, us)
	}
	sort.Slice(out, func(i, j int) bool { return decompStronger(out[i], out[j]) })
	return out
}

// structural drops width-1 units and returns the rest sorted strongest-first.
// Singles impose no shape on a follower, only a card count.
func structural(units []Unit) []Unit {
	out := make([]Unit, 0, len(units))
	for _, u := range units {
		if u.Count >= 2 {
			out = append(out, u)
		}
	}
	sortUnits(out)
	return out
}

func replaceUnit(units []Unit, i int, with ...Unit) []Unit {
	out := make([]Unit, 0, len(units)+len(with)-1)
	out = append(out, units[:i]...)
	out = append(out, units[i+1:]...)
	out = append(out, with...)
	return out
}

func unitsKey(units []Unit) string {
	parts := make([]string, len(units))
	for i, u := range units {
		parts[i] = fmt.Sprintf("%dx%d", u.Count, u.Length)
	}
	return strings.Join(parts, ",")
}

// decompStronger orders decompositions: more structured cards first, then
// stronger leading units. Both inputs are sorted strongest-first already.
func decompStronger(a, b []Unit) bool {
	as, bs := 0, 0
	for _, u := range a {
		as += u.Size()
	}
	for _, u := range b {
		bs += u.Size()
	}
	if as != bs {
		return as > bs
	}
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return unitStronger(a[i], b[i])
		}
	}
	return len(a) > len(b)
}
