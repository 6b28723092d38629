package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init installs the global logger for one binary (api, worker, migrate).
func Init(env, service string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(Level(env))
	log.Logger = New(env, service, os.Stderr)
}

// New builds a logger tagged with the service name. Development writes
// human-readable console lines, every other environment writes JSON.
func New(env, service string, w io.Writer) zerolog.Logger {
	if env == "development" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: w != os.Stderr}
	}
	return zerolog.New(w).With().Timestamp().Str("service", service).Logger()
}

// Level is debug in development and info elsewhere.
func Level(env string) zerolog.Level {
	if env == "development" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
