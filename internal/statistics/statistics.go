// Package statistics accumulates per-hand rewards of an evaluation run.
package statistics

import (
	"fmt"
	"math"
	"slices"
)

// HandResult is the outcome of one finished round.
type HandResult struct {
	Reward       float64 // payout of the round
	Doubled      bool
	Insured      bool
	Natural      bool // opening hand was 21
	PlayerBusted bool
	DealerBusted bool
}

// Bucket sums a subset of hands.
type Bucket struct {
	Hands int
	Sum   float64
}

// Mean is the average reward of the bucket.
func (b Bucket) Mean() float64 {
	if b.Hands == 0 {
		return 0
	}
	return b.Sum / float64(b.Hands)
}

// Statistics tracks the reward distribution of a run.
type Statistics struct {
	Hands  int
	Sum    float64
	SumSq  float64   // sum of squares for the variance
	Values []float64 // every reward, for median and percentiles

	Wins   int
	Losses int
	Pushes int

	Doubled  Bucket
	Standard Bucket // hands that were not doubled
	Insured  Bucket

	Naturals    int
	PlayerBusts int
	DealerBusts int
	LargestWin  float64
	LargestLoss float64
}

// Add records one hand.
func (s *Statistics) Add(r HandResult) {
	s.Hands++
	s.Sum += r.Reward
	s.SumSq += r.Reward * r.Reward
	s.Values = append(s.Values, r.Reward)

	switch {
	case r.Reward > 0:
		s.Wins++
	case r.Reward < 0:
		s.Losses++
	default:
		s.Pushes++
	}

	if r.Doubled {
		s.Doubled.Hands++
		s.Doubled.Sum += r.Reward
	} else {
		s.Standard.Hands++
		s.Standard.Sum += r.Reward
	}
	if r.Insured {
		s.Insured.Hands++
		s.Insured.Sum += r.Reward
	}

	if r.Natural {
		s.Naturals++
	}
	if r.PlayerBusted {
		s.PlayerBusts++
	}
	if r.DealerBusted {
		s.DealerBusts++
	}
	s.LargestWin = max(s.LargestWin, r.Reward)
	s.LargestLoss = min(s.LargestLoss, r.Reward)
}

// Mean returns the average reward per hand.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.Sum / float64(s.Hands)
}

// Variance returns the sample variance of the rewards.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumSq - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(max(s.Variance(), 0))
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the normal-approximation 95% interval for
// the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median reward.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the linearly interpolated reward at p in [0, 1].
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks that the counters agree with each other.
func (s *Statistics) Validate() error {
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values length (%d) does not match hands (%d)", len(s.Values), s.Hands)
	}
	if s.Wins+s.Losses+s.Pushes != s.Hands {
		return fmt.Errorf("outcomes (%d) do not match hands (%d)", s.Wins+s.Losses+s.Pushes, s.Hands)
	}
	if s.Doubled.Hands+s.Standard.Hands != s.Hands {
		return fmt.Errorf("doubled+standard hands (%d) do not match hands (%d)",
			s.Doubled.Hands+s.Standard.Hands, s.Hands)
	}
	if math.Abs(s.Sum-s.Doubled.Sum-s.Standard.Sum) > 1e-6 {
		return fmt.Errorf("ledger mismatch: sum=%.6f doubled=%.6f standard=%.6f",
			s.Sum, s.Doubled.Sum, s.Standard.Sum)
	}
	return nil
}
