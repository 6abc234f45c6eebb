// Package logger builds the zerolog logger shared by the server, the
// booking service and the availability monitor.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// New returns a logger writing to stdout.
func New(env string, format Format) zerolog.Logger {
	return NewWithWriter(env, format, os.Stdout)
}

// NewWithWriter returns a timestamped logger. Production logs at info,
// everything else at debug.
func NewWithWriter(env string, format Format, w io.Writer) zerolog.Logger {
	if format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: w != os.Stdout}
	}

	level := zerolog.DebugLevel
	if env == "production" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(level).With().Timestamp().Str("service", "tour-engine").Logger()
}
