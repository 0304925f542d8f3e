package log

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Entry is one retained log record.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     slog.Level     `json:"level"`
	Message   string         `json:"message"`
	Component string         `json:"component,omitempty"`
	Source    string         `json:"source,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// Buffer keeps the most recent log entries in memory, oldest first.
type Buffer struct {
	mu      sync.Mutex
	max     int
	entries []Entry
}

func NewBuffer(maxEntries int) *Buffer {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Buffer{max: maxEntries}
}

// Handler returns an slog.Handler that records into b.
func (b *Buffer) Handler(level slog.Leveler, withSource bool) slog.Handler {
	return &bufferHandler{buf: b, level: level, withSource: withSource}
}

func (b *Buffer) add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, e)
	if over := len(b.entries) - b.max; over > 0 {
		b.entries = append(b.entries[:0:0], b.entries[over:]...)
	}
}

// Entries returns a copy of every retained entry.
func (b *Buffer) Entries() []Entry {
	return b.collect(func(Entry) bool { return true })
}

// ByLevel returns the entries recorded at exactly level.
func (b *Buffer) ByLevel(level slog.Level) []Entry {
	return b.collect(func(e Entry) bool { return e.Level == level })
}

// Search matches query case-insensitively against the message, source,
// component and attribute values.
func (b *Buffer) Search(query string) []Entry {
	q := strings.ToLower(query)
	return b.collect(func(e Entry) bool {
		if strings.Contains(strings.ToLower(e.Message), q) ||
			strings.Contains(strings.ToLower(e.Source), q) ||
			strings.Contains(strings.ToLower(e.Component), q) {
			return true
		}
		for k, v := range e.Attrs {
			if strings.Contains(strings.ToLower(k), q) ||
				strings.Contains(strings.ToLower(fmt.Sprint(v)), q) {
				return true
			}
		}
		return false
	})
}

// Filter returns entries at level whose source or component contains
// source. An empty source matches everything.
func (b *Buffer) Filter(level slog.Level, source string) []Entry {
	return b.collect(func(e Entry) bool {
		if e.Level != level {
			return false
		}
		return source == "" || strings.Contains(e.Source, source) || strings.Contains(e.Component, source)
	})
}

func (b *Buffer) Clear() {
	b.mu.Lock()
	b.entries = nil
	b.mu.Unlock()
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Export renders the retained entries as indented JSON.
func (b *Buffer) Export() ([]byte, error) {
	entries := b.Entries()
	if entries == nil {
		entries = []Entry{}
	}
	return json.MarshalIndent(entries, "", "  ")
}

func (b *Buffer) collect(keep func(Entry) bool) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Entry
	for _, e := range b.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

type bufferHandler struct {
	buf        *Buffer
	level      slog.Leveler
	withSource bool
	attrs      []slog.Attr
	group      string
}

func (h *bufferHandler) Enabled(_ context.Context, lvl slog.Level) bool {
	return lvl >= h.level.Level()
}

func (h *bufferHandler) Handle(_ context.Context, r slog.Record) error {
	e := Entry{
		Timestamp: r.Time,
		Level:     r.Level,
		Message:   r.Message,
	}
	attrs := make(map[string]any)
	for _, a := range h.attrs {
		h.put(attrs, &e, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.put(attrs, &e, h.group, a)
		return true
	})
	if len(attrs) > 0 {
		e.Attrs = attrs
	}
	if h.withSource && r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := frames.Next()
		e.Source = fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	h.buf.add(e)
	return nil
}

func (h *bufferHandler) put(dst map[string]any, e *Entry, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.put(dst, e, key, ga)
		}
		return
	}
	if key == FieldComponent {
		e.Component = a.Value.String()
		return
	}
	v := a.Value.Any()
	if err, ok := v.(error); ok {
		v = err.Error()
	}
	dst[key] = v
}

func (h *bufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	nh.attrs = append(nh.attrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		nh.attrs = append(nh.attrs, a)
	}
	return &nh
}

func (h *bufferHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	if h.group != "" {
		nh.group = h.group + "." + name
	} else {
		nh.group = name
	}
	return &nh
}
