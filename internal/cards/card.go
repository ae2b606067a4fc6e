package cards

import "fmt"

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Spades
	Diamonds
	Clubs
)

// Suits lists every suit in shoe construction order.
var Suits = [...]Suit{Hearts, Spades, Diamonds, Clubs}

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank is the blackjack value of a card. Aces are 1 and every face card is
// folded into 10, so valid ranks are 1..10.
type Rank uint8

const (
	Ace Rank = 1
	Ten Rank = 10
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch {
	case r == Ace:
		return "A"
	case r >= 2 && r <= Ten:
		return fmt.Sprintf("%d", r)
	default:
		return "?"
	}
}

// Card represents a playing card. Two cards are equal when suit and rank match.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a card, folding ranks above ten (jack, queen, king) into ten.
// No face-card identity survives the fold.
func NewCard(suit Suit, rank int) Card {
	if rank > int(Ten) {
		rank = int(Ten)
	}
	return Card{Suit: suit, Rank: Rank(rank)}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// Total scores a hand with the sequential greedy ace rule: cards are summed in
// the order they were added, and an ace counts 11 when the running total plus
// 11 stays at or below 21, otherwise 1. Earlier aces are never re-evaluated,
// so [A, A] is 12 and the result depends on draw order.
func Total(cards []Card) int {
	total := 0
	for _, c := range cards {
		if c.Rank == Ace {
			if total+11 > 21 {
				total++
			} else {
				total += 11
			}
			continue
		}
		total += int(c.Rank)
	}
	return total
}
