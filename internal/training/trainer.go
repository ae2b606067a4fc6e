// Package training runs concurrent epsilon-greedy workers against a shared
// qlearn.Table and reports their progress.
package training

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjackrl/internal/qlearn"
	"github.com/lox/blackjackrl/internal/randutil"
)

// WorkerSummary describes what one worker did over a run.
type WorkerSummary struct {
	Worker      int
	Episodes    int
	TotalReward float64
}

// MeanReward is the average reward per episode.
func (s WorkerSummary) MeanReward() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return s.TotalReward / float64(s.Episodes)
}

// Summary describes a finished run.
type Summary struct {
	RunID    uuid.UUID
	Seed     int64
	Duration time.Duration
	Workers  []WorkerSummary
	States   int
}

// Episodes is the total number of episodes played.
func (s Summary) Episodes() int {
	total := 0
	for _, w := range s.Workers {
		total += w.Episodes
	}
	return total
}

// MeanReward is the average reward over every episode of the run.
func (s Summary) MeanReward() float64 {
	total, n := 0.0, 0
	for _, w := range s.Workers {
		total += w.TotalReward
		n += w.Episodes
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// Trainer drives a pool of workers that share one table.
type Trainer struct {
	cfg    Config
	table  *qlearn.Table
	board  *Board
	runID  uuid.UUID
	seed   int64
	logger *log.Logger

	playEpisode func(EpisodeConfig) (Episode, error)
}

// NewTrainer validates cfg and prepares a run against table.
func NewTrainer(cfg Config, table *qlearn.Table) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		return nil, fmt.Errorf("table is required")
	}

	runID := uuid.Must(uuid.NewV7())
	return &Trainer{
		cfg:    cfg,
		table:  table,
		board:  NewBoard(cfg.Workers),
		runID:  runID,
		seed:   randutil.Seed(cfg.Seed),
		logger: cfg.logger().With("run", runID.String()),

		playEpisode: RunEpisode,
	}, nil
}

// RunID identifies this run in logs and snapshot headers.
func (t *Trainer) RunID() uuid.UUID {
	return t.runID
}

// Seed is the effective seed of the run.
func (t *Trainer) Seed() int64 {
	return t.seed
}

// Board exposes per-worker progress.
func (t *Trainer) Board() *Board {
	return t.board
}

// Table returns the shared table.
func (t *Trainer) Table() *qlearn.Table {
	return t.table
}

// Run starts every worker and waits for all of them. A worker that fails,
// including by tripping a table invariant, stops on its own while the others
// run to completion; the first such error is returned. Cancelling ctx stops
// workers between episodes.
func (t *Trainer) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	// While the board is live, log lines go through the reporter so they
	// print above the rows instead of breaking the redraw.
	logger := t.logger
	var reporter *Reporter
	var stopReporter context.CancelFunc = func() {}
	var reporterDone quartz.Waiter
	if t.cfg.Progress != nil {
		reporter = NewReporter(t.cfg.Progress, t.board, t.cfg.clock(), t.cfg.ProgressInterval)
		logger = t.logger.With()
		logger.SetOutput(reporter)
		var rctx context.Context
		rctx, stopReporter = context.WithCancel(ctx)
		reporterDone = reporter.Start(rctx)
	}

	logger.Info("starting training run",
		"workers", t.cfg.Workers,
		"iterations", t.cfg.Iterations,
		"bet", t.cfg.Bet,
		"epsilon_start", t.cfg.EpsilonStart,
		"epsilon_floor", t.cfg.EpsilonFloor,
		"warmup", t.cfg.WarmupFraction,
		"seed", t.seed)

	summaries := make([]WorkerSummary, t.cfg.Workers)
	var g errgroup.Group
	for w := range t.cfg.Workers {
		summaries[w].Worker = w
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("worker %d: %v", w, r)
				}
				if err != nil {
					p := t.board.Get(w)
					p.Err = err
					t.board.Set(w, p)
					logger.Error("worker aborted", "worker", w, "episodes", summaries[w].Episodes, "error", err)
				}
			}()
			return t.runWorker(ctx, logger.With("worker", w), randutil.Derive(t.seed, w), &summaries[w])
		})
	}
	err := g.Wait()

	stopReporter()
	if reporter != nil {
		_ = reporterDone.Wait()
		reporter.Render()
	}

	summary := Summary{
		RunID:    t.runID,
		Seed:     t.seed,
		Duration: time.Since(start),
		Workers:  summaries,
		States:   t.table.Len(),
	}
	for _, w := range summaries {
		t.logger.Debug("worker finished", "worker", w.Worker, "episodes", w.Episodes, "mean_reward", w.MeanReward())
	}
	if err != nil {
		return summary, err
	}

	t.logger.Info("training completed",
		"duration", summary.Duration,
		"episodes", summary.Episodes(),
		"states", summary.States,
		"mean_reward", summary.MeanReward())
	return summary, nil
}

// runWorker plays the worker's episodes, accumulating into summary as it
// goes so the count survives an aborted run.
func (t *Trainer) runWorker(ctx context.Context, logger *log.Logger, rng *rand.Rand, summary *WorkerSummary) error {
	worker := summary.Worker
	every := t.cfg.reportEvery()

	window, windowN, avg := 0.0, 0, 0.0
	publish := func(done bool) {
		if windowN > 0 {
			avg = window / float64(windowN)
		}
		t.board.Set(worker, WorkerProgress{
			Episodes:  summary.Episodes,
			Percent:   summary.Episodes * 100 / t.cfg.Iterations,
			AvgReward: avg,
			Done:      done,
		})
		window, windowN = 0, 0
	}

	for i := range t.cfg.Iterations {
		if err := ctx.Err(); err != nil {
			return err
		}

		ep, err := t.playEpisode(EpisodeConfig{
			Table:   t.table,
			Rng:     rng,
			Epsilon: t.cfg.Epsilon(i),
			Bet:     t.cfg.Bet,
			Learn:   true,
			Logger:  logger,
		})
		if err != nil {
			return fmt.Errorf("worker %d episode %d: %w", worker, i, err)
		}

		summary.Episodes++
		summary.TotalReward += ep.Reward
		window += ep.Reward
		windowN++

		if summary.Episodes%every == 0 {
			publish(false)
		}
	}

	publish(true)
	return nil
}
