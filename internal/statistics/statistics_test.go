package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsEmpty(t *testing.T) {
	var s Statistics
	assert.Zero(t, s.Mean())
	assert.Zero(t, s.Variance())
	assert.Zero(t, s.StdDev())
	assert.Zero(t, s.StdError())
	assert.Zero(t, s.Median())
	assert.Zero(t, s.Percentile(0.9))
	assert.Error(t, s.Validate())
}

func TestStatisticsSingleHand(t *testing.T) {
	var s Statistics
	s.Add(HandResult{Reward: 1.5, Natural: true})

	assert.Equal(t, 1, s.Hands)
	assert.Equal(t, 1.5, s.Mean())
	assert.Zero(t, s.Variance())
	assert.Equal(t, 1.5, s.Median())
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Naturals)
	assert.Equal(t, 1.5, s.LargestWin)
	assert.Zero(t, s.LargestLoss)
	require.NoError(t, s.Validate())
}

func TestStatisticsDistribution(t *testing.T) {
	var s Statistics
	for _, r := range []HandResult{
		{Reward: -1, PlayerBusted: true},
		{Reward: 1, DealerBusted: true},
		{Reward: 0},
		{Reward: 2, Doubled: true},
		{Reward: -2, Doubled: true},
		{Reward: -0.5, Insured: true},
	} {
		s.Add(r)
	}

	assert.Equal(t, 6, s.Hands)
	assert.InDelta(t, -0.5/6, s.Mean(), 1e-12)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 3, s.Losses)
	assert.Equal(t, 1, s.Pushes)

	assert.Equal(t, 2, s.Doubled.Hands)
	assert.Zero(t, s.Doubled.Mean())
	assert.Equal(t, 4, s.Standard.Hands)
	assert.Equal(t, 1, s.Insured.Hands)
	assert.Equal(t, -0.5, s.Insured.Mean())
	assert.Equal(t, 1, s.PlayerBusts)
	assert.Equal(t, 1, s.DealerBusts)
	assert.Equal(t, 2.0, s.LargestWin)
	assert.Equal(t, -2.0, s.LargestLoss)

	// sorted: -2 -1 -0.5 0 1 2
	assert.Equal(t, -0.25, s.Median())
	assert.Equal(t, -2.0, s.Percentile(0))
	assert.Equal(t, 2.0, s.Percentile(1))

	mean := s.Mean()
	var ss float64
	for _, v := range s.Values {
		ss += (v - mean) * (v - mean)
	}
	assert.InDelta(t, ss/5, s.Variance(), 1e-9)
	assert.InDelta(t, math.Sqrt(ss/5)/math.Sqrt(6), s.StdError(), 1e-9)

	lo, hi := s.ConfidenceInterval95()
	assert.Less(t, lo, mean)
	assert.Greater(t, hi, mean)
	assert.InDelta(t, mean, (lo+hi)/2, 1e-12)

	require.NoError(t, s.Validate())
}

func TestStatisticsValidateDetectsDrift(t *testing.T) {
	var s Statistics
	s.Add(HandResult{Reward: 1})
	s.Add(HandResult{Reward: -1})

	s.Standard.Sum += 0.5
	assert.ErrorContains(t, s.Validate(), "ledger mismatch")

	s.Standard.Sum -= 0.5
	s.Pushes++
	assert.ErrorContains(t, s.Validate(), "outcomes")
}
