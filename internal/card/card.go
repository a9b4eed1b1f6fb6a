package card

import (
	"fmt"
	"strings"
)

// Suit represents a card suit. Jokers is the natural suit of the two jokers;
// Trumps only ever appears as an effective suit under a Trump context.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
	Jokers
	Trumps
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Jokers:
		return "★"
	case Trumps:
		return "trump"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. Jokers carry their own ranks above Ace.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
	LittleJoker
	BigJoker
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Two:
		return "2"
	case Three:
		return "3"
	case Four:
		return "4"
	case Five:
		return "5"
	case Six:
		return "6"
	case Seven:
		return "7"
	case Eight:
		return "8"
	case Nine:
		return "9"
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	case LittleJoker:
		return "LJ"
	case BigJoker:
		return "BJ"
	default:
		return "?"
	}
}

// ParseRank parses a single rank character (case insensitive, no jokers).
func ParseRank(c byte) (Rank, error) {
	switch c {
	case '2':
		return Two, nil
	case '3':
		return Three, nil
	case '4':
		return Four, nil
	case '5':
		return Five, nil
	case '6':
		return Six, nil
	case '7':
		return Seven, nil
	case '8':
		return Eight, nil
	case '9':
		return Nine, nil
	case 't', 'T':
		return Ten, nil
	case 'j', 'J':
		return Jack, nil
	case 'q', 'Q':
		return Queen, nil
	case 'k', 'K':
		return King, nil
	case 'a', 'A':
		return Ace, nil
	default:
		return 0, fmt.Errorf("unknown rank %q", c)
	}
}

// MarshalText encodes the rank in its single-character wire form.
func (r Rank) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a single-character rank. Jokers have no standalone
// rank form on the wire.
func (r *Rank) UnmarshalText(text []byte) error {
	if len(text) != 1 {
		return fmt.Errorf("invalid rank %q", text)
	}
	parsed, err := ParseRank(text[0])
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseSuit parses a single suit character (case insensitive).
func ParseSuit(c byte) (Suit, error) {
	switch c {
	case 's', 'S':
		return Spades, nil
	case 'h', 'H':
		return Hearts, nil
	case 'd', 'D':
		return Diamonds, nil
	case 'c', 'C':
		return Clubs, nil
	default:
		return 0, fmt.Errorf("unknown suit %q", c)
	}
}

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// String returns the display representation of a card (e.g., "A♠", "BJ")
func (c Card) String() string {
	if c.Suit == Jokers {
		return c.Rank.String()
	}
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Code returns the two-character wire form of a card (e.g., "As", "7h").
// Jokers encode as "Lj" and "Bj".
func (c Card) Code() string {
	switch {
	case c.Rank == LittleJoker:
		return "Lj"
	case c.Rank == BigJoker:
		return "Bj"
	default:
		return c.Rank.String() + strings.ToLower(suitLetter(c.Suit))
	}
}

// IsJoker returns true for either joker
func (c Card) IsJoker() bool {
	return c.Suit == Jokers
}

// MarshalJSON encodes the card as its wire code.
func (c Card) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.Code() + `"`), nil
}

// UnmarshalJSON decodes a card from its wire code.
func (c *Card) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func suitLetter(s Suit) string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// Parse parses a single two-character card code.
// Ranks: 2-9, T, J, Q, K, A. Suits: s, h, d, c. Jokers: "Lj", "Bj",
// any case accepted.
func Parse(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q: must be two characters", s)
	}
	switch strings.ToLower(s) {
	case "lj":
		return Card{Suit: Jokers, Rank: LittleJoker}, nil
	case "bj":
		return Card{Suit: Jokers, Rank: BigJoker}, nil
	}
	rank, err := ParseRank(s[0])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	suit, err := ParseSuit(s[1])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// ParseAll parses a concatenated card string (e.g., "As7s7hBj"), spaces allowed.
func ParseAll(s string) ([]Card, error) {
	s = strings.ReplaceAll(s, " ", "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string length: %d (must be even)", len(s))
	}
	var cards []Card
	for i := 0; i < len(s); i += 2 {
		c, err := Parse(s[i : i+2])
		if err != nil {
			return nil, fmt.Errorf("at position %d: %w", i, err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseAll parses cards and panics on error (for tests)
func MustParseAll(s string) []Card {
	cards, err := ParseAll(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards %q: %v", s, err))
	}
	return cards
}
