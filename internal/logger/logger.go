package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// New builds the process logger at the level named by LOG_LEVEL. An unknown
// or empty level means info.
func New() zerolog.Logger {
	return WithLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

func WithLevel(level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	return logger.Level(level)
}

func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

var Module = fx.Provide(New)
