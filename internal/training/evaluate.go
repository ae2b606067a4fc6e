package training

import (
	"errors"
	rand "math/rand/v2"

	"github.com/lox/blackjackrl/internal/qlearn"
	"github.com/lox/blackjackrl/internal/statistics"
)

// Evaluate plays hands rounds with the greedy policy of table (epsilon 0)
// without updating it. States the policy has never seen are registered with
// zero values, so the table may grow.
func Evaluate(table *qlearn.Table, hands int, bet float64, rng *rand.Rand) (*statistics.Statistics, error) {
	if hands <= 0 {
		return nil, errors.New("hands must be > 0")
	}

	stats := &statistics.Statistics{}
	for range hands {
		ep, err := RunEpisode(EpisodeConfig{
			Table: table,
			Rng:   rng,
			Bet:   bet,
		})
		if err != nil {
			return stats, err
		}
		final := ep.Final
		stats.Add(statistics.HandResult{
			Reward:       ep.Reward,
			Doubled:      final.Doubled,
			Insured:      final.InsuranceTaken,
			Natural:      len(final.Player) == 2 && final.PlayerTotal() == 21,
			PlayerBusted: final.PlayerTotal() > 21,
			DealerBusted: final.DealerTotal() > 21,
		})
	}
	return stats, nil
}
