package main

import (
	"github.com/alecthomas/kong"
)

var cli struct {
	Debug bool `help:"enable debug logging"`

	Train TrainCmd `cmd:"" help:"train a blackjack policy by concurrent self-play"`
	Play  PlayCmd  `cmd:"" help:"play blackjack rounds from the terminal"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Tabular Q-learning for single-player blackjack"),
		kong.UsageOnError(),
	)

	logger := newLogger(cli.Debug)

	switch ctx.Command() {
	case "train":
		if err := cli.Train.Run(logger); err != nil {
			logger.Fatal("training failed", "error", err)
		}
	case "play":
		if err := cli.Play.Run(logger); err != nil {
			logger.Fatal("play failed", "error", err)
		}
	default:
		logger.Fatal("unknown command", "command", ctx.Command())
	}
}
