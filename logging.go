package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// newLogger returns the diagnostics logger. Only warnings and errors are shown
// unless verbose is set.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
