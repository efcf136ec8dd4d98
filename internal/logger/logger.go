// Package logger builds the log/slog logger used by the toolbelt CLI.
//
// The util package never logs; only commands do. A logger is created once in
// the root command from the --log-level and --log-format settings and carried
// to subcommands through the command context.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/phsym/console-slog"
)

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	l, _ := New(ConfigDefault())
	SetDefault(l)
}

// Level mirrors the log/slog levels the CLI accepts.
type Level int

var (
	Debug = Level(slog.LevelDebug)
	Info  = Level(slog.LevelInfo)
	Warn  = Level(slog.LevelWarn)
	Error = Level(slog.LevelError)
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

var strLevels = map[string]Level{
	"debug": Debug,
	"info":  Info,
	"warn":  Warn,
	"error": Error,
}

// ParseLevel converts a case-insensitive level name into a Level.
func ParseLevel(s string) (Level, error) {
	k := strings.ToLower(s)
	l, ok := strLevels[k]
	if !ok {
		return 0, fmt.Errorf("invalid log level: %s", k)
	}
	return l, nil
}

// Format selects the slog handler.
type Format string

const (
	// FormatConsole uses console-slog for colored human output
	FormatConsole Format = "console"
	// FormatJSON uses the standard slog JSONHandler
	FormatJSON Format = "json"
	// FormatNone discards every record
	FormatNone Format = "none"
)

// ParseFormat validates a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	switch f {
	case FormatConsole, FormatJSON, FormatNone:
		return f, nil
	case "":
		return FormatConsole, nil
	}
	return "", fmt.Errorf("unsupported log format: %s", s)
}

type Config struct {
	Level       Level
	Format      Format
	Destination io.Writer
	NoColor     bool
}

// ConfigDefault logs info and above to stderr through console-slog.
func ConfigDefault() Config {
	return Config{
		Level:       Info,
		Format:      FormatConsole,
		Destination: os.Stderr,
	}
}

// New returns a logger for cfg. A nil Destination means stderr.
func New(cfg Config) (*slog.Logger, error) {
	if cfg.Destination == nil {
		cfg.Destination = os.Stderr
	}
	if _, ok := strLevels[cfg.Level.String()]; !ok {
		return nil, fmt.Errorf("unsupported log level: %d", cfg.Level)
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatConsole:
		handler = console.NewHandler(cfg.Destination, &console.HandlerOptions{
			Level:   slog.Level(cfg.Level),
			NoColor: cfg.NoColor,
		})
	case FormatJSON:
		handler = slog.NewJSONHandler(cfg.Destination, &slog.HandlerOptions{Level: slog.Level(cfg.Level)})
	case FormatNone:
		return newDiscard(), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}
	return slog.New(handler), nil
}

type ctxKey struct{}

// WithContext stores l on ctx.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From returns the logger stored on ctx, or Default when there is none.
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	if l := Default(); l != nil {
		return l
	}
	return newDiscard()
}

func newDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

// Default returns the package-wide fallback logger.
func Default() *slog.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the logger From falls back to.
func SetDefault(l *slog.Logger) {
	defaultLogger.Store(l)
}
