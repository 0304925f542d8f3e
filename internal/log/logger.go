package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with a component name and, when configured, a
// buffer of recent entries.
type Logger struct {
	*slog.Logger
	component string
	buffer    *Buffer
}

// Config holds logger configuration
type Config struct {
	Enabled          bool
	Level            slog.Level
	IncludeTimestamp bool
	IncludeSource    bool
	// MaxEntries is how many records the Buffer retains. Zero disables it.
	MaxEntries int
	Output     io.Writer
	Component  string
	// Handler replaces the text handler written to Output.
	Handler slog.Handler
}

// DefaultConfig returns sensible defaults for logging
func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		Level:            slog.LevelInfo,
		IncludeTimestamp: true,
		MaxEntries:       1000,
		Output:           os.Stderr,
		Component:        ComponentApp,
	}
}

// New creates a new logger with the given configuration
func New(config Config) *Logger {
	if !config.Enabled {
		return Nop()
	}

	handler := config.Handler
	if handler == nil {
		out := config.Output
		if out == nil {
			out = os.Stderr
		}
		opts := &slog.HandlerOptions{Level: config.Level, AddSource: config.IncludeSource}
		if !config.IncludeTimestamp {
			opts.ReplaceAttr = dropTime
		}
		handler = slog.NewTextHandler(out, opts)
	}

	var buf *Buffer
	if config.MaxEntries > 0 {
		buf = NewBuffer(config.MaxEntries)
		handler = fanout{handler, buf.Handler(config.Level, config.IncludeSource)}
	}

	l := &Logger{Logger: slog.New(handler), buffer: buf}
	if config.Component != "" {
		return l.WithComponent(config.Component)
	}
	return l
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})),
	}
}

// With returns a new logger with the given attributes
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		component: l.component,
		buffer:    l.buffer,
	}
}

// WithComponent returns a new logger with a specific component name
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.Logger.With(FieldComponent, component),
		component: component,
		buffer:    l.buffer,
	}
}

// Component returns the logger's component name
func (l *Logger) Component() string {
	return l.component
}

// Buffer returns the retained entries, or nil when retention is off.
func (l *Logger) Buffer() *Buffer {
	return l.buffer
}

// SetDefault sets the default logger for the application
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

// fanout sends each record to every handler that wants its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, lvl slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, lvl) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
