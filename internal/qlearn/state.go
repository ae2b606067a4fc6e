package qlearn

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/blackjackrl/internal/blackjack"
	"github.com/lox/blackjackrl/internal/cards"
)

// State is the canonical, hashable projection of a round used to index the
// value table: the player's ranks in ascending order, the dealer's up-card
// rank and whether insurance was taken. Sorting makes the key independent of
// draw order. States are comparable and can be used directly as map keys.
type State struct {
	// ranks holds one byte per player card, ascending.
	ranks          string
	DealerUp       cards.Rank
	InsuranceTaken bool
}

// NewState builds a state from player ranks in any order.
func NewState(player []cards.Rank, dealerUp cards.Rank, insuranceTaken bool) State {
	sorted := slices.Clone(player)
	slices.Sort(sorted)
	b := make([]byte, len(sorted))
	for i, r := range sorted {
		b[i] = byte(r)
	}
	return State{ranks: string(b), DealerUp: dealerUp, InsuranceTaken: insuranceTaken}
}

// Project maps a round onto its State. It is pure and must be called for a
// position before the table is consulted or updated for it.
func Project(r blackjack.Round) State {
	player := make([]cards.Rank, len(r.Player))
	for i, c := range r.Player {
		player[i] = c.Rank
	}
	var up cards.Rank
	if c, ok := r.DealerUpCard(); ok {
		up = c.Rank
	}
	return NewState(player, up, r.InsuranceTaken)
}

// Ranks returns the sorted player ranks.
func (s State) Ranks() []cards.Rank {
	out := make([]cards.Rank, len(s.ranks))
	for i := range len(s.ranks) {
		out[i] = cards.Rank(s.ranks[i])
	}
	return out
}

// PlayerCards is the number of cards in the player's hand.
func (s State) PlayerCards() int {
	return len(s.ranks)
}

// InsuranceLegal reports whether Insurance is a legal action in this state:
// the dealer shows an ace, the player holds exactly two cards and insurance
// has not been taken.
func (s State) InsuranceLegal() bool {
	return s.DealerUp == cards.Ace && len(s.ranks) == 2 && !s.InsuranceTaken
}

// ActionCount is the number of value slots a state carries.
func (s State) ActionCount() int {
	if s.InsuranceLegal() {
		return len(blackjack.Actions)
	}
	return len(blackjack.Actions) - 1
}

func (s State) String() string {
	parts := make([]string, len(s.ranks))
	for i := range len(s.ranks) {
		parts[i] = fmt.Sprintf("%d", s.ranks[i])
	}
	return fmt.Sprintf("player=[%s] dealer=%d insurance=%t", strings.Join(parts, ","), s.DealerUp, s.InsuranceTaken)
}

func (s State) hash() uint32 {
	const offset32 = 2166136261
	const prime32 = 16777619
	var hash uint32 = offset32
	for i := range len(s.ranks) {
		hash ^= uint32(s.ranks[i])
		hash *= prime32
	}
	hash ^= uint32(s.DealerUp)
	hash *= prime32
	if s.InsuranceTaken {
		hash ^= 1
		hash *= prime32
	}
	return hash
}

func compareStates(a, b State) int {
	if c := strings.Compare(a.ranks, b.ranks); c != 0 {
		return c
	}
	if a.DealerUp != b.DealerUp {
		return int(a.DealerUp) - int(b.DealerUp)
	}
	switch {
	case a.InsuranceTaken == b.InsuranceTaken:
		return 0
	case !a.InsuranceTaken:
		return -1
	default:
		return 1
	}
}
