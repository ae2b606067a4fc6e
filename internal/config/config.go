// Package config loads training settings from an optional HCL file and
// merges command-line overrides on top of them.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjackrl/internal/qlearn"
	"github.com/lox/blackjackrl/internal/training"
)

// Settings is the resolved configuration of a training run.
type Settings struct {
	Iterations       int
	Workers          int
	Bet              float64
	EpsilonStart     float64
	EpsilonFloor     float64
	WarmupFraction   float64
	Seed             int64
	ReportEvery      int
	ProgressInterval time.Duration
	Output           string
	Format           string
	LogLevel         string
}

// fileConfig mirrors the HCL file. Attributes left out of the file stay nil
// and keep their default.
type fileConfig struct {
	Iterations       *int     `hcl:"iterations,optional"`
	Workers          *int     `hcl:"workers,optional"`
	Bet              *float64 `hcl:"bet,optional"`
	EpsilonStart     *float64 `hcl:"epsilon_start,optional"`
	EpsilonFloor     *float64 `hcl:"epsilon_floor,optional"`
	WarmupFraction   *float64 `hcl:"warmup_fraction,optional"`
	Seed             *int64   `hcl:"seed,optional"`
	ReportEvery      *int     `hcl:"report_every,optional"`
	ProgressInterval *string  `hcl:"progress_interval,optional"`
	Output           *string  `hcl:"output,optional"`
	Format           *string  `hcl:"format,optional"`
	LogLevel         *string  `hcl:"log_level,optional"`
}

// Overrides holds values given explicitly on the command line. Nil fields
// are left alone.
type Overrides struct {
	Iterations       *int
	Workers          *int
	Bet              *float64
	EpsilonStart     *float64
	EpsilonFloor     *float64
	WarmupFraction   *float64
	Seed             *int64
	ReportEvery      *int
	ProgressInterval *time.Duration
	Output           *string
	Format           *string
	LogLevel         *string
}

// Default returns the settings used when no file or flag says otherwise.
func Default() Settings {
	tc := training.DefaultConfig()
	return Settings{
		Iterations:       tc.Iterations,
		Workers:          tc.Workers,
		Bet:              tc.Bet,
		EpsilonStart:     tc.EpsilonStart,
		EpsilonFloor:     tc.EpsilonFloor,
		WarmupFraction:   tc.WarmupFraction,
		ReportEvery:      tc.ReportEvery,
		ProgressInterval: tc.ProgressInterval,
		Output:           "qtable.json",
		Format:           qlearn.FormatJSON.String(),
		LogLevel:         "info",
	}
}

// Load reads filename on top of Default. An empty name or a missing file
// yields the defaults.
func Load(filename string) (Settings, error) {
	settings := Default()
	if filename == "" {
		return settings, nil
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return Settings{}, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return Settings{}, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	var interval *time.Duration
	if fc.ProgressInterval != nil {
		d, err := time.ParseDuration(*fc.ProgressInterval)
		if err != nil {
			return Settings{}, fmt.Errorf("progress_interval: %w", err)
		}
		interval = &d
	}

	settings.Apply(Overrides{
		Iterations:       fc.Iterations,
		Workers:          fc.Workers,
		Bet:              fc.Bet,
		EpsilonStart:     fc.EpsilonStart,
		EpsilonFloor:     fc.EpsilonFloor,
		WarmupFraction:   fc.WarmupFraction,
		Seed:             fc.Seed,
		ReportEvery:      fc.ReportEvery,
		ProgressInterval: interval,
		Output:           fc.Output,
		Format:           fc.Format,
		LogLevel:         fc.LogLevel,
	})
	return settings, nil
}

// Apply copies every non-nil override into s.
func (s *Settings) Apply(o Overrides) {
	set(&s.Iterations, o.Iterations)
	set(&s.Workers, o.Workers)
	set(&s.Bet, o.Bet)
	set(&s.EpsilonStart, o.EpsilonStart)
	set(&s.EpsilonFloor, o.EpsilonFloor)
	set(&s.WarmupFraction, o.WarmupFraction)
	set(&s.Seed, o.Seed)
	set(&s.ReportEvery, o.ReportEvery)
	set(&s.ProgressInterval, o.ProgressInterval)
	set(&s.Output, o.Output)
	set(&s.Format, o.Format)
	set(&s.LogLevel, o.LogLevel)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks the settings that training.Config does not cover and
// then the training parameters themselves.
func (s Settings) Validate() error {
	if s.Output == "" {
		return errors.New("output path is required")
	}
	if _, err := s.SnapshotFormat(); err != nil {
		return err
	}
	if _, err := s.Level(); err != nil {
		return err
	}
	return s.Training().Validate()
}

// SnapshotFormat parses Format.
func (s Settings) SnapshotFormat() (qlearn.SnapshotFormat, error) {
	return qlearn.ParseSnapshotFormat(s.Format)
}

// Level parses LogLevel.
func (s Settings) Level() (log.Level, error) {
	if s.LogLevel == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Training converts the settings into a training.Config. Progress output,
// clock and logger are left for the caller.
func (s Settings) Training() training.Config {
	cfg := training.DefaultConfig()
	cfg.Iterations = s.Iterations
	cfg.Workers = s.Workers
	cfg.Bet = s.Bet
	cfg.EpsilonStart = s.EpsilonStart
	cfg.EpsilonFloor = s.EpsilonFloor
	cfg.WarmupFraction = s.WarmupFraction
	cfg.Seed = s.Seed
	cfg.ReportEvery = s.ReportEvery
	cfg.ProgressInterval = s.ProgressInterval
	return cfg
}
