package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjackrl/internal/config"
	"github.com/lox/blackjackrl/internal/qlearn"
	"github.com/lox/blackjackrl/internal/randutil"
	"github.com/lox/blackjackrl/internal/training"
)

type TrainCmd struct {
	Config           string         `help:"HCL settings file; missing file uses defaults" default:"blackjack.hcl" type:"path"`
	Iterations       *int           `help:"episodes per worker (default 1000000)"`
	Workers          *int           `help:"number of concurrent workers (default 20)"`
	Bet              *float64       `help:"stake of every simulated round (default 1)"`
	EpsilonStart     *float64       `help:"initial exploration rate (default 1)"`
	EpsilonFloor     *float64       `help:"exploration rate after warm-up (default 0.02)"`
	Warmup           *float64       `help:"share of iterations spent decaying epsilon (default 0.05)"`
	Seed             *int64         `help:"random seed; 0 uses time seed"`
	Output           *string        `short:"o" help:"snapshot path (default qtable.json)"`
	Format           *string        `help:"snapshot format: text or json (default json)"`
	ProgressInterval *time.Duration `help:"progress redraw interval (default 100ms)"`
	ReportEvery      *int           `help:"episodes between worker progress updates (default 1000)"`
	NoProgress       bool           `help:"disable the live progress display"`
	EvalHands        int            `help:"play N greedy hands after training and report the result" default:"0"`
}

func (cmd *TrainCmd) Run(logger *log.Logger) error {
	settings, err := config.Load(cmd.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	settings.Apply(config.Overrides{
		Iterations:       cmd.Iterations,
		Workers:          cmd.Workers,
		Bet:              cmd.Bet,
		EpsilonStart:     cmd.EpsilonStart,
		EpsilonFloor:     cmd.EpsilonFloor,
		WarmupFraction:   cmd.Warmup,
		Seed:             cmd.Seed,
		ReportEvery:      cmd.ReportEvery,
		ProgressInterval: cmd.ProgressInterval,
		Output:           cmd.Output,
		Format:           cmd.Format,
	})
	if err := settings.Validate(); err != nil {
		return err
	}
	if cmd.EvalHands < 0 {
		return errors.New("eval-hands cannot be negative")
	}

	if !cli.Debug {
		level, _ := settings.Level()
		logger.SetLevel(level)
	}
	format, _ := settings.SnapshotFormat()

	cfg := settings.Training()
	cfg.Logger = logger
	if !cmd.NoProgress {
		cfg.Progress = os.Stderr
	}

	table := qlearn.NewTable()
	trainer, err := training.NewTrainer(cfg, table)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, runErr := trainer.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if runErr != nil {
		logger.Warn("training interrupted, writing partial snapshot", "episodes", summary.Episodes())
	}

	header := []string{
		fmt.Sprintf("run %s", summary.RunID),
		fmt.Sprintf("seed %d workers %d iterations %d bet %g epsilon %g..%g warmup %g",
			summary.Seed, cfg.Workers, cfg.Iterations, cfg.Bet, cfg.EpsilonStart, cfg.EpsilonFloor, cfg.WarmupFraction),
		fmt.Sprintf("episodes %d states %d mean reward %.6f", summary.Episodes(), summary.States, summary.MeanReward()),
	}
	if err := qlearn.WriteSnapshot(settings.Output, table.Snapshot(), qlearn.SnapshotOptions{
		Format: format,
		Header: header,
	}); err != nil {
		return err
	}
	logger.Info("snapshot written", "path", settings.Output, "format", format, "states", summary.States)

	if runErr != nil {
		return runErr
	}

	if cmd.EvalHands > 0 {
		stats, err := training.Evaluate(table, cmd.EvalHands, cfg.Bet, randutil.Derive(trainer.Seed(), cfg.Workers))
		if err != nil {
			return fmt.Errorf("evaluate: %w", err)
		}
		lo, hi := stats.ConfidenceInterval95()
		logger.Info("greedy evaluation",
			"hands", stats.Hands,
			"wins", stats.Wins,
			"losses", stats.Losses,
			"pushes", stats.Pushes,
			"mean_reward", stats.Mean(),
			"ci95", fmt.Sprintf("[%.4f, %.4f]", lo, hi),
			"doubled", stats.Doubled.Hands,
			"insured", stats.Insured.Hands,
			"player_busts", stats.PlayerBusts)
	}
	return nil
}
