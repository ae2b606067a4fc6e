package qlearn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjackrl/internal/blackjack"
	"github.com/lox/blackjackrl/internal/cards"
)

func dealt(t *testing.T, ranks ...int) blackjack.Round {
	t.Helper()
	cs := make([]cards.Card, len(ranks))
	for i, r := range ranks {
		cs[len(ranks)-1-i] = cards.NewCard(cards.Hearts, r)
	}
	r, err := blackjack.Deal(cards.NewShoeFrom(cs...))
	require.NoError(t, err)
	return r
}

func TestProjectSortsPlayerRanks(t *testing.T) {
	a := dealt(t, 9, 2, 10, 5, 4)
	b := dealt(t, 2, 9, 10, 7, 4)

	sa, sb := Project(a), Project(b)
	assert.Equal(t, sa, sb, "draw order and dealer hole card must not matter")
	assert.Equal(t, []cards.Rank{2, 9}, sa.Ranks())
	assert.Equal(t, cards.Rank(10), sa.DealerUp)
	assert.False(t, sa.InsuranceTaken)
	assert.Equal(t, 2, sa.PlayerCards())
}

func TestProjectTracksInsurance(t *testing.T) {
	r := dealt(t, 9, 7, 1, 10, 5)
	before := Project(r)
	require.True(t, before.InsuranceLegal())
	assert.Equal(t, 4, before.ActionCount())

	r, err := r.Apply(blackjack.Insurance)
	require.NoError(t, err)
	after := Project(r)
	assert.True(t, after.InsuranceTaken)
	assert.NotEqual(t, before, after)
	assert.False(t, after.InsuranceLegal())
	assert.Equal(t, 3, after.ActionCount())
}

func TestProjectIsPure(t *testing.T) {
	r := dealt(t, 9, 2, 10, 5, 4)
	_ = Project(r)
	assert.Equal(t, cards.Rank(9), r.Player[0].Rank)
	assert.Equal(t, cards.Rank(2), r.Player[1].Rank)
}

func TestInsuranceLegal(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  bool
	}{
		{"ace up two cards", NewState([]cards.Rank{5, 6}, cards.Ace, false), true},
		{"ace up taken", NewState([]cards.Rank{5, 6}, cards.Ace, true), false},
		{"ace up three cards", NewState([]cards.Rank{5, 6, 2}, cards.Ace, false), false},
		{"ten up", NewState([]cards.Rank{5, 6}, cards.Ten, false), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.InsuranceLegal())
		})
	}
}

func TestStateString(t *testing.T) {
	s := NewState([]cards.Rank{10, 1}, 7, true)
	assert.Equal(t, "player=[1,10] dealer=7 insurance=true", s.String())
}
