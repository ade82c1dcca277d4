package config

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogging configures the global zerolog logger. Production writes JSON;
// anything else writes human readable console output.
func SetupLogging(c *Configuration, out io.Writer) {
	if c.IsProduction() {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	level, known := ParseLevel(c.LogLevel, c.IsProduction())
	zerolog.SetGlobalLevel(level)
	if !known {
		log.Warn().Msgf("Unknown LOG_LEVEL '%s', defaulting to info.", c.LogLevel)
	}
}

// ParseLevel maps a LOG_LEVEL value to a zerolog level. An empty value picks
// warn in production and info elsewhere. The second result is false for an
// unrecognized value, which maps to info.
func ParseLevel(s string, production bool) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "fatal":
		return zerolog.FatalLevel, true
	case "panic":
		return zerolog.PanicLevel, true
	case "disabled":
		return zerolog.Disabled, true
	case "":
		if production {
			return zerolog.WarnLevel, true
		}
		return zerolog.InfoLevel, true
	}
	return zerolog.InfoLevel, false
}
