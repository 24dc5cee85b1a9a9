// Package logger wraps zerolog for keyfold's diagnostic tracing.
//
// Tracing is observability only: the -v flag raises the level to Debug so
// every internal step (bootstrap, validation, lookup, write) is reported on
// stderr, but no log level may change program behavior.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger. Embedding exposes the
// full zerolog API while leaving room for application helpers.
type Logger struct {
	zerolog.Logger
}

// New constructs the process logger. With verbose=false only warnings and
// errors are emitted; verbose=true enables step-by-step debug tracing.
// Output goes to stderr so traces never mix with lookup results on stdout.
func New(verbose bool) *Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()

	return &Logger{logger}
}

// Nop returns a *Logger that discards all output. Intended for tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}
