package card

import "sort"

// Trump describes the trump context for one round: the level rank plus the
// declared suit. Suit == Jokers means no suit was declared (no-trump): only
// jokers and level-rank cards are trump.
type Trump struct {
	Rank Rank
	Suit Suit
}

// NoTrump returns a no-trump context at the given level rank.
func NoTrump(rank Rank) Trump {
	return Trump{Rank: rank, Suit: Jokers}
}

// IsTrump reports whether c is a trump card in this context.
func (t Trump) IsTrump(c Card) bool {
	if c.Suit == Jokers || c.Rank == t.Rank {
		return true
	}
	return t.Suit != Jokers && c.Suit == t.Suit
}

// EffectiveSuit maps a card onto the suit it follows as: trump cards collapse
// into Trumps, everything else keeps its natural suit.
func (t Trump) EffectiveSuit(c Card) Suit {
	if t.IsTrump(c) {
		return Trumps
	}
	return c.Suit
}

// OrderOf returns the card's position within its effective suit. Positions are
// dense: cards whose positions differ by exactly one are adjacent for tractor
// purposes. Off-suit level-rank cards share one position (they are equals).
// The level rank is skipped inside natural runs, so the ranks on either side
// of it are adjacent.
func (t Trump) OrderOf(c Card) int {
	switch {
	case c.Rank == BigJoker:
		return t.jokerBase() + 1
	case c.Rank == LittleJoker:
		return t.jokerBase()
	case c.Rank == t.Rank && c.Suit == t.Suit:
		return 13
	case c.Rank == t.Rank:
		if t.Suit == Jokers {
			return 0
		}
		return 12
	default:
		ord := int(c.Rank - Two)
		if c.Rank > t.Rank {
			ord--
		}
		return ord
	}
}

func (t Trump) jokerBase() int {
	if t.Suit == Jokers {
		return 1
	}
	return 14
}

// Less orders two cards for display and matching: by effective suit, then by
// position, then by natural suit to keep equal-position cards stable.
func (t Trump) Less(a, b Card) bool {
	as, bs := t.EffectiveSuit(a), t.EffectiveSuit(b)
	if as != bs {
		return as < bs
	}
	ao, bo := t.OrderOf(a), t.OrderOf(b)
	if ao != bo {
		return ao < bo
	}
	return a.Suit < b.Suit
}

// Sort sorts cards in place under this trump context.
func (t Trump) Sort(cards []Card) {
	sort.Slice(cards, func(i, j int) bool { return t.Less(cards[i], cards[j]) })
}
