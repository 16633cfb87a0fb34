package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultTimeLayout renders timestamps the way the shipped formatter configs
// do: date, time, then milliseconds after a comma.
const DefaultTimeLayout = "2006-01-02 15:04:05,000"

// LineFormat is a parsed record format string. The declarative configs use
// placeholder syntax of the form %(field)s; the fields understood here are
// asctime, name, levelname and message. Any other text is emitted verbatim.
type LineFormat struct {
	segments []segment
}

type segment struct {
	literal string
	field   string // asctime, name, levelname, message; empty for literals
}

// ParseLineFormat parses a %(field)s style format string.
func ParseLineFormat(format string) *LineFormat {
	lf := &LineFormat{}
	for len(format) > 0 {
		start := strings.Index(format, "%(")
		if start < 0 {
			lf.segments = append(lf.segments, segment{literal: format})
			break
		}
		end := strings.Index(format[start:], ")s")
		if end < 0 {
			lf.segments = append(lf.segments, segment{literal: format})
			break
		}
		if start > 0 {
			lf.segments = append(lf.segments, segment{literal: format[:start]})
		}
		lf.segments = append(lf.segments, segment{field: format[start+2 : start+end]})
		format = format[start+end+2:]
	}
	return lf
}

// DefaultLineFormat returns the shared timestamped line format used by both
// action package configs.
func DefaultLineFormat() *LineFormat {
	return ParseLineFormat("%(asctime)s - %(name)s - %(levelname)s - %(message)s")
}

// Render produces one log line (without trailing newline).
func (f *LineFormat) Render(asctime, name, level, message string) string {
	var b strings.Builder
	for _, s := range f.segments {
		if s.field == "" {
			b.WriteString(s.literal)
			continue
		}
		switch s.field {
		case "asctime":
			b.WriteString(asctime)
		case "name":
			b.WriteString(name)
		case "levelname":
			b.WriteString(level)
		case "message":
			b.WriteString(message)
		default:
			// Unknown placeholders are kept verbatim so nothing is lost.
			b.WriteString("%(" + s.field + ")s")
		}
	}
	return b.String()
}

// TranslateTimeLayout converts the strftime date format used by the configs
// (e.g. %Y-%m-%d %H:%M:%S) into a Go time layout. Directives without a Go
// equivalent are dropped.
func TranslateTimeLayout(datefmt string) string {
	if datefmt == "" {
		return DefaultTimeLayout
	}
	replacer := strings.NewReplacer(
		"%Y", "2006",
		"%y", "06",
		"%m", "01",
		"%d", "02",
		"%H", "15",
		"%M", "04",
		"%S", "05",
		"%f", "000000",
		"%j", "002",
		"%b", "Jan",
		"%B", "January",
		"%a", "Mon",
		"%A", "Monday",
		"%p", "PM",
		"%z", "-0700",
		"%Z", "MST",
		"%%", "%",
	)
	return replacer.Replace(datefmt)
}

// LineHandler is a slog.Handler emitting the configured single line format.
// Handlers constructed for different loggers may share the same writer (for
// example one append mode log file); writes are serialized through a mutex
// owned by the shared writer wrapper.
type LineHandler struct {
	w      *SyncWriter
	min    slog.Level
	name   string
	format *LineFormat
	layout string
	attrs  []slog.Attr
}

// LineHandlerOptions configures a LineHandler.
type LineHandlerOptions struct {
	// Level is the minimum record level the handler emits.
	Level Level
	// Name is the logger name substituted for %(name)s.
	Name string
	// Format overrides the default shared line format.
	Format *LineFormat
	// TimeLayout overrides the default timestamp layout.
	TimeLayout string
}

// NewLineHandler creates a LineHandler writing to w.
func NewLineHandler(w io.Writer, optFns ...func(o *LineHandlerOptions)) *LineHandler {
	opts := LineHandlerOptions{
		Level:      LevelDebug,
		Name:       "root",
		Format:     DefaultLineFormat(),
		TimeLayout: DefaultTimeLayout,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &LineHandler{
		w:      NewSyncWriter(w),
		min:    opts.Level.slogLevel(),
		name:   opts.Name,
		format: opts.Format,
		layout: opts.TimeLayout,
	}
}

// WithName returns a copy of the handler bound to a different logger name.
// The underlying writer (and its mutex) is shared.
func (h *LineHandler) WithName(name string) *LineHandler {
	nh := *h
	nh.name = name
	return &nh
}

// Enabled reports whether records at the given level are emitted.
func (h *LineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.min
}

// Handle renders and writes a single log line.
func (h *LineHandler) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message

	var kv []string
	for _, a := range h.attrs {
		kv = append(kv, a.Key+"="+a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		kv = append(kv, a.Key+"="+a.Value.String())
		return true
	})
	if len(kv) > 0 {
		msg = msg + " " + strings.Join(kv, " ")
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	line := h.format.Render(ts.Format(h.layout), h.name, levelName(r.Level), msg)
	_, err := fmt.Fprintln(h.w, line)
	return err
}

// WithAttrs returns a handler that includes the given attributes on every line.
func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &nh
}

// WithGroup is accepted but group qualification is not rendered in the flat
// line format.
func (h *LineHandler) WithGroup(string) slog.Handler { return h }

// SyncWriter serializes writes to a shared writer.
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSyncWriter wraps w, reusing the wrapper if w already is one.
func NewSyncWriter(w io.Writer) *SyncWriter {
	if sw, ok := w.(*SyncWriter); ok {
		return sw
	}
	return &SyncWriter{w: w}
}

// Write implements io.Writer.
func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// multiHandler fans a record out to several handlers, gated by a logger level.
type multiHandler struct {
	min      slog.Level
	handlers []slog.Handler
}

func newMultiHandler(min Level, handlers ...slog.Handler) *multiHandler {
	return &multiHandler{min: min.slogLevel(), handlers: handlers}
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level < m.min {
		return false
	}
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		nh[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{min: m.min, handlers: nh}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	nh := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		nh[i] = h.WithGroup(name)
	}
	return &multiHandler{min: m.min, handlers: nh}
}
