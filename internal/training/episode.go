package training

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjackrl/internal/blackjack"
	"github.com/lox/blackjackrl/internal/cards"
	"github.com/lox/blackjackrl/internal/qlearn"
)

// Step is one visited position of an episode. Action is nil for the
// terminal position.
type Step struct {
	State  qlearn.State
	Action *blackjack.Action
}

// Episode is the outcome of one simulated round.
type Episode struct {
	Steps  []Step
	Final  blackjack.Round
	Reward float64
}

// EpisodeConfig configures RunEpisode.
type EpisodeConfig struct {
	Table   *qlearn.Table
	Rng     *rand.Rand
	Epsilon float64
	Bet     float64

	// Shoe is dealt from when non-nil; otherwise a fresh shuffled shoe is used.
	Shoe *cards.Shoe

	// Learn applies the TD updates once the reward is known.
	Learn bool

	Logger *log.Logger
}

// RunEpisode plays one round end to end. While the round is active it
// projects the position, selects an action and applies it, recording the
// (state, action) pair. The terminal position is registered with no action,
// the dealer draws to 17 and the payout becomes the reward.
//
// With Learn set, every recorded step except the last is then updated toward
// that same terminal reward, with the following step as successor.
func RunEpisode(cfg EpisodeConfig) (Episode, error) {
	logger := cfg.Logger
	var shoe cards.Shoe
	if cfg.Shoe != nil {
		shoe = *cfg.Shoe
	} else {
		shoe = cards.NewShoe(cfg.Rng)
	}

	round, err := blackjack.Deal(shoe)
	if err != nil {
		return Episode{}, err
	}

	var steps []Step
	for round.Active {
		state := qlearn.Project(round)
		action := cfg.Table.SelectAction(state, cfg.Epsilon, cfg.Rng)

		next, err := round.Apply(action)
		if errors.Is(err, blackjack.ErrInsuranceNotAvailable) {
			if logger != nil {
				logger.Debug("action rejected", "state", state, "action", action, "error", err)
			}
			continue
		}
		if err != nil {
			return Episode{}, fmt.Errorf("apply %s: %w", action, err)
		}

		steps = append(steps, Step{State: state, Action: &action})
		round = next
	}

	terminal := qlearn.Project(round)
	cfg.Table.Register(terminal)
	steps = append(steps, Step{State: terminal})

	round, err = round.PlayDealer()
	if err != nil {
		return Episode{}, err
	}
	reward := round.Payout(cfg.Bet)

	if cfg.Learn {
		for i := 0; i < len(steps)-1; i++ {
			cur, next := steps[i], steps[i+1]
			if err := cfg.Table.Update(cur.State, next.State, *cur.Action, next.Action, reward); err != nil {
				return Episode{}, fmt.Errorf("update step %d: %w", i, err)
			}
		}
	}

	return Episode{Steps: steps, Final: round, Reward: reward}, nil
}
