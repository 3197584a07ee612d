// Package logging configures the structured logger every pipeline stage
// writes its events through: one event per stage boundary (fragment count
// and assembled size, driver success, located-region count, page count,
// refined-region count, compressed asset size).
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// New builds a logger writing to stderr. When stderr is attached to a
// terminal it uses zerolog's human-readable ConsoleWriter; otherwise it
// emits newline-delimited JSON, the shape a host process piping texlens's
// stderr into its own log aggregation expects. verbose lowers the minimum
// level from Info to Debug.
func New(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	var w io.Writer = os.Stderr
	if term.IsTerminal(int(os.Stderr.Fd())) {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// NewQuiet builds a logger writing only Error-and-above events to stderr,
// for --quiet.
func NewQuiet() zerolog.Logger {
	var w io.Writer = os.Stderr
	if term.IsTerminal(int(os.Stderr.Fd())) {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(zerolog.ErrorLevel).With().Timestamp().Logger()
}
