package training

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjackrl/internal/blackjack"
	"github.com/lox/blackjackrl/internal/cards"
	"github.com/lox/blackjackrl/internal/qlearn"
	"github.com/lox/blackjackrl/internal/randutil"
)

// stackedShoe deals the given ranks in order.
func stackedShoe(ranks ...int) *cards.Shoe {
	cs := make([]cards.Card, len(ranks))
	for i, r := range ranks {
		cs[len(ranks)-1-i] = cards.NewCard(cards.Suits[i%len(cards.Suits)], r)
	}
	shoe := cards.NewShoeFrom(cs...)
	return &shoe
}

func state(dealerUp int, insured bool, player ...int) qlearn.State {
	ranks := make([]cards.Rank, len(player))
	for i, r := range player {
		ranks[i] = cards.Rank(r)
	}
	return qlearn.NewState(ranks, cards.Rank(dealerUp), insured)
}

// prefer nudges the greedy choice in s toward action.
func prefer(t *testing.T, table *qlearn.Table, s qlearn.State, action blackjack.Action) {
	t.Helper()
	table.Register(s)
	require.NoError(t, table.Update(s, s, action, nil, 1))
}

func TestRunEpisodeStand(t *testing.T) {
	table := qlearn.NewTable()
	s0 := state(10, false, 9, 9)
	prefer(t, table, s0, blackjack.Stand)

	ep, err := RunEpisode(EpisodeConfig{
		Table: table,
		Rng:   randutil.New(1),
		Bet:   1,
		Shoe:  stackedShoe(9, 9, 10, 4, 5, 8),
		Learn: true,
	})
	require.NoError(t, err)

	require.Len(t, ep.Steps, 2)
	assert.Equal(t, s0, ep.Steps[0].State)
	require.NotNil(t, ep.Steps[0].Action)
	assert.Equal(t, blackjack.Stand, *ep.Steps[0].Action)
	assert.Equal(t, s0, ep.Steps[1].State)
	assert.Nil(t, ep.Steps[1].Action)

	assert.False(t, ep.Final.Active)
	assert.False(t, ep.Final.Doubled)
	assert.Equal(t, 19, ep.Final.DealerTotal())
	assert.Equal(t, -1.0, ep.Reward)

	values, ok := table.Values(s0)
	require.True(t, ok)
	assert.InDelta(t, 0.1+0.1*(-1-0.1), values[blackjack.Stand.Slot()], 1e-12)
	assert.Zero(t, values[blackjack.Draw.Slot()])
}

func TestRunEpisodeDrawsUntilBust(t *testing.T) {
	table := qlearn.NewTable()

	ep, err := RunEpisode(EpisodeConfig{
		Table: table,
		Rng:   randutil.New(1),
		Bet:   1,
		Shoe:  stackedShoe(2, 3, 10, 7, 4, 10, 5, 6),
		Learn: true,
	})
	require.NoError(t, err)

	require.Len(t, ep.Steps, 4)
	want := []qlearn.State{
		state(10, false, 2, 3),
		state(10, false, 2, 3, 4),
		state(10, false, 2, 3, 4, 10),
		state(10, false, 2, 3, 4, 5, 10),
	}
	for i, s := range want {
		assert.Equal(t, s, ep.Steps[i].State, "step %d", i)
	}
	assert.Nil(t, ep.Steps[3].Action)
	assert.Equal(t, 24, ep.Final.PlayerTotal())
	assert.Equal(t, -1.0, ep.Reward)

	for _, s := range want[:3] {
		values, ok := table.Values(s)
		require.True(t, ok)
		assert.InDelta(t, -0.1, values[blackjack.Draw.Slot()], 1e-12, "every step moves toward the terminal reward")
	}
	terminal, ok := table.Values(want[3])
	require.True(t, ok, "terminal state must be registered")
	assert.Equal(t, []float64{0, 0, 0}, terminal)
}

func TestRunEpisodeInsurance(t *testing.T) {
	table := qlearn.NewTable()
	s0 := state(1, false, 9, 7)
	prefer(t, table, s0, blackjack.Insurance)

	ep, err := RunEpisode(EpisodeConfig{
		Table: table,
		Rng:   randutil.New(1),
		Bet:   1,
		Shoe:  stackedShoe(9, 7, 1, 10, 10),
		Learn: true,
	})
	require.NoError(t, err)

	require.Len(t, ep.Steps, 3)
	assert.Equal(t, blackjack.Insurance, *ep.Steps[0].Action)
	assert.Equal(t, state(1, true, 9, 7), ep.Steps[1].State)
	assert.Equal(t, blackjack.Draw, *ep.Steps[1].Action)
	assert.True(t, ep.Final.InsuranceTaken)
	assert.InDelta(t, 0.5-1, ep.Reward, 1e-12)

	values, _ := table.Values(s0)
	require.Len(t, values, 4)
	assert.InDelta(t, 0.1+0.1*(-0.5-0.1), values[blackjack.Insurance.Slot()], 1e-12)

	insured, _ := table.Values(state(1, true, 9, 7))
	assert.Len(t, insured, 3)
}

func TestRunEpisodeNatural(t *testing.T) {
	table := qlearn.NewTable()

	ep, err := RunEpisode(EpisodeConfig{
		Table: table,
		Rng:   randutil.New(1),
		Bet:   2,
		Shoe:  stackedShoe(1, 10, 10, 10),
		Learn: true,
	})
	require.NoError(t, err)

	require.Len(t, ep.Steps, 1)
	assert.Nil(t, ep.Steps[0].Action)
	assert.Equal(t, 3.0, ep.Reward, "natural 21 pays 1.5x even against dealer 20")
	assert.Equal(t, 1, table.Len())
}

func TestRunEpisodeWithoutLearning(t *testing.T) {
	table := qlearn.NewTable()
	s0 := state(10, false, 9, 9)
	prefer(t, table, s0, blackjack.Stand)
	before, _ := table.Values(s0)

	ep, err := RunEpisode(EpisodeConfig{
		Table: table,
		Rng:   randutil.New(1),
		Bet:   1,
		Shoe:  stackedShoe(9, 9, 10, 4, 5),
	})
	require.NoError(t, err)
	assert.Equal(t, -1.0, ep.Reward)

	after, _ := table.Values(s0)
	assert.Equal(t, before, after)
}

func TestRunEpisodeEmptyShoe(t *testing.T) {
	table := qlearn.NewTable()

	_, err := RunEpisode(EpisodeConfig{
		Table: table,
		Rng:   randutil.New(1),
		Bet:   1,
		Shoe:  stackedShoe(2, 3, 10, 7),
		Learn: true,
	})
	assert.ErrorIs(t, err, cards.ErrEmptyShoe)
}

func TestRunEpisodeFreshShoe(t *testing.T) {
	table := qlearn.NewTable()
	rng := randutil.New(3)

	for range 200 {
		ep, err := RunEpisode(EpisodeConfig{Table: table, Rng: rng, Epsilon: 0.5, Bet: 1, Learn: true})
		require.NoError(t, err)
		require.NotEmpty(t, ep.Steps)
		assert.Nil(t, ep.Steps[len(ep.Steps)-1].Action)
		assert.False(t, ep.Final.Active)
		assert.GreaterOrEqual(t, ep.Final.DealerTotal(), blackjack.DealerStandsOn)
		assert.Equal(t, cards.ShoeSize, ep.Final.Shoe.Len()+len(ep.Final.Discard))
	}
	assert.Positive(t, table.Len())
}
