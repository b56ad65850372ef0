// Package logtrace provides logging and tracing utilities for the application.
// It integrates with zerolog for structured logging and supports request tracing.
package logtrace

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the global logger with Unix millisecond timestamps.
// Configures zerolog to output to stderr at the given level.
func InitLogger(level zerolog.Level) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Logger is the logging capability used by the service client.
// Errors are reported for every failed call, Infof for notable successes such as redirects.
type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type zeroLogger struct {
	logger zerolog.Logger
}

// NewZeroLogger returns a Logger that writes through the given zerolog logger.
func NewZeroLogger(l zerolog.Logger) Logger {
	return &zeroLogger{logger: l}
}

// Default returns a Logger backed by the global zerolog logger.
func Default() Logger {
	return &zeroLogger{logger: log.Logger}
}

func (z *zeroLogger) Infof(format string, args ...any) {
	z.logger.Info().Msg(fmt.Sprintf(format, args...))
}

func (z *zeroLogger) Errorf(format string, args ...any) {
	z.logger.Error().Msg(fmt.Sprintf(format, args...))
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}
