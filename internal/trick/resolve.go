package trick

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/tractorbot/internal/card"
	"github.com/lox/tractorbot/internal/randutil"
)

// Resolve computes the cards to play from hand. A nil format means the agent
// leads: one card chosen uniformly at random, always a legal opening. With a
// format present the play follows suit as far as the hand allows:
//
//  1. all suited cards when the hand holds no more than the format requires,
//     topped up from the rest of the hand if still short;
//  2. otherwise the first decomposition whose shapes the suited cards can
//     satisfy, padded with random suited cards up to the required count.
//
// The terminal empty decomposition always matches, so a play of exactly the
// required size is produced whenever the hand is large enough. Random picks
// draw from rng so runs are reproducible under a seeded source.
func Resolve(hand card.Hand, format *Format, policy DrawPolicy, rng *rand.Rand) ([]card.Card, error) {
	if format == nil {
		return lead(hand, rng)
	}

	required := format.Size()
	if required == 0 {
		return nil, fmt.Errorf("resolve: empty format")
	}
	if total := hand.Total(); total < required {
		return nil, fmt.Errorf("resolve: need %d cards, hand holds %d", required, total)
	}

	trump := format.Trump
	suited := hand.Partition(trump, format.Suit)

	if len(suited) <= required {
		play := append([]card.Card(nil), suited...)
		if missing := required - len(play); missing > 0 {
			play = append(play, randutil.Sample(rng, unsuited(hand, trump, format.Suit), missing)...)
		}
		trump.Sort(play)
		return play, nil
	}

	for _, decomp := range Decompositions(format.Units, policy) {
		plays := FindPlays(trump, suited, decomp, policy)
		if len(plays) == 0 {
			continue
		}
		play := append([]card.Card(nil), plays[rng.IntN(len(plays))]...)
		if missing := required - len(play); missing > 0 {
			play = append(play, randutil.Sample(rng, subtract(suited, play), missing)...)
		}
		trump.Sort(play)
		return play, nil
	}
	return nil, fmt.Errorf("resolve: no decomposition of %s matched", format)
}

func lead(hand card.Hand, rng *rand.Rand) ([]card.Card, error) {
	cards := hand.Cards()
	if len(cards) == 0 {
		return nil, fmt.Errorf("resolve: cannot lead from an empty hand")
	}
	return []card.Card{randutil.Pick(rng, cards)}, nil
}

// unsuited returns the cards of hand outside the given effective suit.
func unsuited(hand card.Hand, t card.Trump, s card.Suit) []card.Card {
	var out []card.Card
	for c, n := range hand {
		if t.EffectiveSuit(c) == s {
			continue
		}
		for i := 0; i < n; i++ {
			out = append(out, c)
		}
	}
	t.Sort(out)
	return out
}

// subtract removes the cards of take from pool, respecting multiplicity.
func subtract(pool, take []card.Card) []card.Card {
	taken := make(map[card.Card]int, len(take))
	for _, c := range take {
		taken[c]++
	}
	var out []card.Card
	for _, c := range pool {
		if taken[c] > 0 {
			taken[c]--
			continue
		}
		out = append(out, c)
	}
	return out
}
