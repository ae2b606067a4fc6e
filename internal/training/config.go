package training

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Config aggregates the parameters of a training run.
type Config struct {
	// Iterations is the number of episodes each worker plays.
	Iterations int

	// Workers is the number of concurrent workers sharing the table.
	Workers int

	// Bet is the stake of every simulated round; rewards scale with it.
	Bet float64

	// EpsilonStart is the exploration rate at the first episode.
	EpsilonStart float64

	// EpsilonFloor is the exploration rate once the warm-up is over.
	EpsilonFloor float64

	// WarmupFraction is the share of Iterations during which epsilon decays
	// from EpsilonStart.
	WarmupFraction float64

	// Seed drives every worker's generator; 0 uses a time seed.
	Seed int64

	// ReportEvery is how many episodes a worker plays between progress
	// updates. Zero uses Iterations/100.
	ReportEvery int

	// Progress receives the live per-worker display. Nil disables it.
	Progress         io.Writer
	ProgressInterval time.Duration
	Clock            quartz.Clock

	Logger *log.Logger
}

// DefaultConfig returns the settings of a full training run.
func DefaultConfig() Config {
	return Config{
		Iterations:       1_000_000,
		Workers:          20,
		Bet:              1,
		EpsilonStart:     1,
		EpsilonFloor:     0.02,
		WarmupFraction:   0.05,
		ReportEvery:      1000,
		ProgressInterval: 100 * time.Millisecond,
	}
}

// Validate ensures the training parameters are safe to use.
func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return errors.New("iterations must be > 0")
	}
	if c.Workers <= 0 {
		return errors.New("workers must be > 0")
	}
	if c.Bet <= 0 {
		return errors.New("bet must be > 0")
	}
	if c.EpsilonStart < 0 || c.EpsilonStart > 1 {
		return errors.New("epsilon start must be within [0, 1]")
	}
	if c.EpsilonFloor < 0 || c.EpsilonFloor > 1 {
		return errors.New("epsilon floor must be within [0, 1]")
	}
	if c.WarmupFraction < 0 || c.WarmupFraction > 1 {
		return errors.New("warm-up fraction must be within [0, 1]")
	}
	if c.ReportEvery < 0 {
		return errors.New("report interval cannot be negative")
	}
	if c.Progress != nil && c.ProgressInterval <= 0 {
		return errors.New("progress interval must be > 0")
	}
	return nil
}

// Epsilon returns the exploration rate for a worker's i-th episode. During
// the warm-up the rate falls linearly with i/Iterations from EpsilonStart,
// then it drops to EpsilonFloor for the rest of the run.
func (c Config) Epsilon(i int) float64 {
	warmup := int(float64(c.Iterations) * c.WarmupFraction)
	if i < warmup {
		return c.EpsilonStart * (1 - float64(i)/float64(c.Iterations))
	}
	return c.EpsilonFloor
}

func (c Config) reportEvery() int {
	if c.ReportEvery > 0 {
		return c.ReportEvery
	}
	return max(c.Iterations/100, 1)
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.New(io.Discard)
}

func (c Config) clock() quartz.Clock {
	if c.Clock != nil {
		return c.Clock
	}
	return quartz.NewReal()
}
