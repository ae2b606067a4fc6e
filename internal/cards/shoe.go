package cards

import (
	"errors"
	rand "math/rand/v2"
	"slices"
)

const (
	shoeCycles = 3
	rankSlots  = 12
)

// ShoeSize is the number of cards in a fresh shoe.
const ShoeSize = shoeCycles * rankSlots * len(Suits)

// ErrEmptyShoe is returned when drawing from a shoe with no cards left.
var ErrEmptyShoe = errors.New("no more cards in shoe")

// Shoe is an ordered pack of cards. The top of the shoe is the end of the
// slice. Shoe values are cheap to copy: Draw hands back a shorter view of the
// same backing array, capped so later appends never write into a sibling.
type Shoe struct {
	cards []Card
}

// NewShoe builds the 144-card training shoe and shuffles it with rng. Each of
// the three cycles walks ranks 1..12 over the four suits with 10, 11 and 12
// collapsed into 10, so ranks 1-9 appear 12 times and rank 10 appears 36 times.
func NewShoe(rng *rand.Rand) Shoe {
	cards := make([]Card, 0, ShoeSize)
	for range shoeCycles {
		for rank := 1; rank <= rankSlots; rank++ {
			for _, suit := range Suits {
				cards = append(cards, NewCard(suit, rank))
			}
		}
	}
	shoe := Shoe{cards: cards}
	shoe.Shuffle(rng)
	return shoe
}

// NewShoeFrom returns a shoe holding cards in the given order, last card on
// top. It does not shuffle; tests use it to stack a deal.
func NewShoeFrom(cards ...Card) Shoe {
	return Shoe{cards: slices.Clone(cards)}
}

// Shuffle applies a uniform random permutation. The cards are copied first so
// shoes sharing a backing array with s keep their order.
func (s *Shoe) Shuffle(rng *rand.Rand) {
	s.cards = slices.Clone(s.cards)
	rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

// Draw removes the top card and returns it with the remaining shoe. The
// receiver is left untouched.
func (s Shoe) Draw() (Card, Shoe, error) {
	n := len(s.cards)
	if n == 0 {
		return Card{}, s, ErrEmptyShoe
	}
	return s.cards[n-1], Shoe{cards: s.cards[: n-1 : n-1]}, nil
}

// Append returns a shoe with card placed on top.
func (s Shoe) Append(card Card) Shoe {
	return Shoe{cards: append(slices.Clip(s.cards), card)}
}

// Len returns the number of cards left in the shoe
func (s Shoe) Len() int {
	return len(s.cards)
}

// Cards returns a copy of the shoe contents, bottom first.
func (s Shoe) Cards() []Card {
	return slices.Clone(s.cards)
}

// Total scores the shoe contents with the same rule as Total.
func (s Shoe) Total() int {
	return Total(s.cards)
}
