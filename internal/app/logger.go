package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-sales-tracker/internal/config"
)

var globalLogger zerolog.Logger

var envLogLevels = map[string]zerolog.Level{
	config.EnvLocal: zerolog.TraceLevel,
	config.EnvDev:   zerolog.DebugLevel,
	config.EnvProd:  zerolog.InfoLevel,
}

// InitDefaultLogger logs JSON to stderr until the env is known. stdout is
// left to command output.
func InitDefaultLogger() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"

	globalLogger = zerolog.New(os.Stderr).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Logger()

	globalLogger.Info().Msg("initialized default logger")
}

func MustInitApplicationLogger() {
	env := config.Global().Env

	level, ok := envLogLevels[env]
	if !ok {
		globalLogger.Error().
			Str("env", env).
			Msg("unknown env")
		panic(fmt.Errorf("unknown env: %s", env))
	}
	zerolog.SetGlobalLevel(level)

	globalLogger = globalLogger.Output(logWriter(env))
	globalLogger.Info().
		Str("env", env).
		Str("level", level.String()).
		Msg("initialized application logger")
}

func logWriter(env string) io.Writer {
	if env != config.EnvLocal {
		return os.Stderr
	}
	return zerolog.ConsoleWriter{
		Out:           os.Stderr,
		TimeFormat:    time.DateTime,
		PartsOrder:    []string{zerolog.TimestampFieldName, zerolog.LevelFieldName, "component", zerolog.CallerFieldName, zerolog.MessageFieldName},
		FieldsExclude: []string{"component"},
	}
}

// componentLogger tags every event with the part of the app that wrote it.
func componentLogger(component string) zerolog.Logger {
	return globalLogger.With().
		Str("component", component).
		Logger()
}

// SetLogLevel overrides the level picked from the env, e.g. for a --log-level flag.
func SetLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		globalLogger.Warn().
			Err(err).
			Str("level", level).
			Msg("ignoring unknown log level")
		return
	}
	zerolog.SetGlobalLevel(lvl)
	globalLogger.Debug().
		Str("level", lvl.String()).
		Msg("overrode log level")
}
