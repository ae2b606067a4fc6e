package main

import (
	"os"

	"github.com/charmbracelet/log"
)

func newLogger(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "blackjack",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
