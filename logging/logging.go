package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel represents logging verbosity
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// Config holds logger configuration
type Config struct {
	Level  LogLevel
	Format string // "json" or "text"
	// Output defaults to stderr.
	Output io.Writer
}

// ParseLevel accepts level names in any case. An empty name is INFO.
func ParseLevel(name string) (LogLevel, error) {
	switch lvl := LogLevel(strings.ToUpper(strings.TrimSpace(name))); lvl {
	case "":
		return LevelInfo, nil
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return lvl, nil
	}
	return "", fmt.Errorf("unknown log level %q", name)
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger from config.
//
// Example:
//
//	log, err := logging.New(logging.Config{Level: logging.LevelDebug, Format: "json"})
func New(config Config) (*slog.Logger, error) {
	writer := config.Output
	if writer == nil {
		writer = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: config.Level.slogLevel()}

	switch strings.ToLower(config.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(writer, opts)), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(writer, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", config.Format)
}

// Discard returns a logger that drops every record. Libraries use it when
// the host supplies no logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// OrDiscard returns log, or Discard() when log is nil.
func OrDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return Discard()
	}
	return log
}
