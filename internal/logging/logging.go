// ABOUTME: Process-wide zerolog setup shared by the CLI, HTTP server, and MCP server
// ABOUTME: Logs go to stderr so stdout stays clean for command output and MCP stdio
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls logger construction
type Options struct {
	Level   zerolog.Level
	Console bool
	Writer  io.Writer
}

// LevelFor maps the CLI verbosity flags onto a zerolog level
func LevelFor(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	}
	return zerolog.InfoLevel
}

// Setup replaces the global logger and returns it
func Setup(opts Options) zerolog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if opts.Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(opts.Level)

	ctx := zerolog.New(w).With().Timestamp()
	if opts.Level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()
	return log.Logger
}
