// Package logger provides the configured zerolog logger shared by all components.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a JSON logger writing to stdout, tagged with the service name.
// The level string is one of zerolog's level names; anything unrecognized
// falls back to info.
func New(serviceName, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}
