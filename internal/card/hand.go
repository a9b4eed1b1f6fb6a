package card

import (
	"fmt"
	"sort"
	"strings"
)

// Hand is a multiset of cards. Multi-deck play means the same card can be
// held more than once.
type Hand map[Card]int

// NewHand builds a hand from a card slice.
func NewHand(cards []Card) Hand {
	h := make(Hand, len(cards))
	for _, c := range cards {
		h[c]++
	}
	return h
}

// Add puts n copies of c into the hand.
func (h Hand) Add(c Card, n int) {
	if n <= 0 {
		return
	}
	h[c] += n
}

// Remove takes n copies of c out of the hand. It fails if the hand holds
// fewer than n.
func (h Hand) Remove(c Card, n int) error {
	have := h[c]
	if have < n {
		return fmt.Errorf("remove %dx %s: only %d in hand", n, c, have)
	}
	if have == n {
		delete(h, c)
	} else {
		h[c] = have - n
	}
	return nil
}

// RemoveAll takes each card in cards out of the hand.
func (h Hand) RemoveAll(cards []Card) error {
	for _, c := range cards {
		if err := h.Remove(c, 1); err != nil {
			return err
		}
	}
	return nil
}

// Count returns how many copies of c the hand holds.
func (h Hand) Count(c Card) int {
	return h[c]
}

// Total returns the number of cards in the hand.
func (h Hand) Total() int {
	n := 0
	for _, v := range h {
		n += v
	}
	return n
}

// Cards expands the hand into a sorted slice.
func (h Hand) Cards() []Card {
	out := make([]Card, 0, h.Total())
	for c, n := range h {
		for i := 0; i < n; i++ {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Suit != out[j].Suit {
			return out[i].Suit < out[j].Suit
		}
		return out[i].Rank < out[j].Rank
	})
	return out
}

// Clone returns an independent copy of the hand.
func (h Hand) Clone() Hand {
	out := make(Hand, len(h))
	for c, n := range h {
		out[c] = n
	}
	return out
}

// Partition returns the cards of the hand whose effective suit under t is s.
func (h Hand) Partition(t Trump, s Suit) []Card {
	var out []Card
	for c, n := range h {
		if t.EffectiveSuit(c) != s {
			continue
		}
		for i := 0; i < n; i++ {
			out = append(out, c)
		}
	}
	t.Sort(out)
	return out
}

func (h Hand) String() string {
	cards := h.Cards()
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
