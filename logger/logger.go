package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LevelEnv names the environment variable holding the log level
// (trace, debug, info, warn, error).
const LevelEnv = "LOG_LEVEL"

// Init returns a JSON logger on stderr. Completion output owns stdout.
func Init() (zerolog.Logger, error) {
	return InitWithOptions("", false)
}

// InitWithOptions returns a logger appending JSON lines to logFile, or writing to
// stderr when logFile is empty. pretty switches stderr output to zerolog's console
// format and cannot be combined with a log file.
func InitWithOptions(logFile string, pretty bool) (zerolog.Logger, error) {
	if logFile != "" && pretty {
		return zerolog.Logger{}, fmt.Errorf("pretty output is only available on stderr")
	}

	out, target, err := openOutput(logFile, pretty)
	if err != nil {
		return zerolog.Logger{}, err
	}

	level := parseLogLevel(os.Getenv(LevelEnv))
	l := zerolog.New(out).Level(level).With().Timestamp().Logger()
	l.Debug().Str("output", target).Str("level", level.String()).Msg("Logger initialized")
	return l, nil
}

// openOutput resolves the log destination and a short description of it.
func openOutput(logFile string, pretty bool) (io.Writer, string, error) {
	switch {
	case logFile != "":
		//nolint:gosec // G304: the log path comes from the command line
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open log file %s: %w", logFile, err)
		}
		return file, logFile, nil
	case pretty:
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}, "stderr (pretty)", nil
	default:
		return os.Stderr, "stderr", nil
	}
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
