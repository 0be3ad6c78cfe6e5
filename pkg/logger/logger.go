// Package logger holds the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	Log = New(consoleWriter(os.Stdout), zerolog.InfoLevel)
	log.Logger = Log
}

// New builds a logger with the service's standard fields.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

// Setup switches between colored console output (debug) and JSON lines
// (release) and applies the level. The zerolog/log package logger is
// replaced as well so library packages share the same sink.
func Setup(mode, levelStr string) {
	var out io.Writer = os.Stdout
	if mode == "debug" {
		out = consoleWriter(os.Stdout)
	}

	Log = New(out, zerolog.InfoLevel)
	log.Logger = Log
	SetLevel(levelStr)
}

// SetLevel sets the log level
func SetLevel(levelStr string) {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
	log.Logger = Log
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
	}
}
