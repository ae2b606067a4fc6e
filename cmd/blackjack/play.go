package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjackrl/internal/play"
	"github.com/lox/blackjackrl/internal/randutil"
)

type PlayCmd struct {
	Bet  float64 `help:"stake of every round" default:"1"`
	Seed int64   `help:"random seed; 0 uses time seed" default:"0"`
}

func (cmd *PlayCmd) Run(logger *log.Logger) error {
	if cmd.Bet <= 0 {
		return errors.New("bet must be > 0")
	}
	seed := randutil.Seed(cmd.Seed)
	logger.Debug("starting play session", "seed", seed, "bet", cmd.Bet)

	session := play.NewSession(os.Stdin, os.Stdout,
		play.WithBet(cmd.Bet),
		play.WithLogger(logger),
	)
	results, err := session.Run(randutil.New(seed))
	logger.Debug("play session finished", "rounds", len(results))
	return err
}
