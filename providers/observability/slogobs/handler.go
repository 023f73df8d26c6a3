package slogobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/fatih/color"
)

const timeLayout = "2006-01-02 15:04:05"

// Handler is a slog.Handler writing compact, pretty or JSON records.
type Handler struct {
	format Format
	level  slog.Leveler
	output io.Writer
	colors bool
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string
}

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	// Format specifies the output format (compact, pretty, json).
	Format Format
	// Level is the minimum log level to output.
	Level slog.Leveler
	// Output is where logs are written (defaults to os.Stdout).
	Output io.Writer
	// Colors controls ANSI colors for the level name (compact/pretty only).
	Colors ColorMode
}

// ColorMode selects when level names are colored.
type ColorMode int

const (
	// ColorAuto colors output written to a terminal.
	ColorAuto ColorMode = iota
	// ColorAlways colors regardless of the output.
	ColorAlways
	// ColorNever disables colors.
	ColorNever
)

// NewHandler creates a new Handler with the given options.
func NewHandler(opts *HandlerOptions) *Handler {
	if opts == nil {
		opts = &HandlerOptions{}
	}
	h := &Handler{
		format: opts.Format,
		level:  opts.Level,
		output: opts.Output,
		colors: opts.Colors == ColorAlways,
		mu:     &sync.Mutex{},
	}
	if h.output == nil {
		h.output = os.Stdout
	}
	if h.format == "" {
		h.format = FormatCompact
	}
	if h.level == nil {
		h.level = slog.LevelInfo
	}
	if opts.Colors == ColorAuto && h.format != FormatJSON {
		if f, ok := h.output.(*os.File); ok {
			h.colors = isTerminal(f)
		}
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes a log record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	attrs := h.collect(r)

	var line []byte
	var err error
	switch h.format {
	case FormatJSON:
		line, err = h.formatJSON(r, attrs)
	case FormatPretty:
		line = h.formatPretty(r, attrs)
	default:
		line, err = h.formatCompact(r, attrs)
	}
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.output.Write(line)
	return err
}

// WithAttrs returns a new Handler with additional attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup returns a new Handler whose later attribute keys are prefixed
// with "name.".
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func (h *Handler) formatCompact(r slog.Record, attrs map[string]any) ([]byte, error) {
	var b strings.Builder
	b.WriteString(r.Time.Format(timeLayout))
	b.WriteByte(' ')
	b.WriteString(h.levelLabel(r.Level, "%5s"))
	b.WriteByte(' ')
	b.WriteString(r.Message)
	if len(attrs) > 0 {
		data, err := json.Marshal(attrs)
		if err != nil {
			return nil, fmt.Errorf("encode attributes: %w", err)
		}
		b.WriteString(" | ")
		b.Write(data)
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func (h *Handler) formatPretty(r slog.Record, attrs map[string]any) []byte {
	var b strings.Builder
	b.WriteString(r.Time.Format(timeLayout))
	b.WriteByte(' ')
	b.WriteString(h.levelLabel(r.Level, "%-5s"))
	b.WriteString("  ")
	b.WriteString(r.Message)
	b.WriteByte('\n')

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s = %v\n", k, attrs[k])
	}
	return []byte(b.String())
}

func (h *Handler) formatJSON(r slog.Record, attrs map[string]any) ([]byte, error) {
	data := make(map[string]any, len(attrs)+3)
	for k, v := range attrs {
		data[k] = v
	}
	data["time"] = r.Time.Format("2006-01-02T15:04:05")
	data["level"] = levelString(r.Level)
	data["msg"] = r.Message

	out, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func (h *Handler) collect(r slog.Record) map[string]any {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		addAttr(attrs, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(attrs, h.prefix, a)
		return true
	})
	return attrs
}

func addAttr(attrs map[string]any, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			addAttr(attrs, prefix+a.Key+".", ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	switch val := v.Any().(type) {
	case error:
		attrs[prefix+a.Key] = val.Error()
	case fmt.Stringer:
		attrs[prefix+a.Key] = val.String()
	default:
		attrs[prefix+a.Key] = val
	}
}

func (h *Handler) levelLabel(level slog.Level, layout string) string {
	label := fmt.Sprintf(layout, levelString(level))
	if !h.colors {
		return label
	}
	c := colorForLevel(level)
	c.EnableColor()
	return c.Sprint(label)
}

func levelString(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return "TRACE"
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}

func colorForLevel(level slog.Level) *color.Color {
	switch {
	case level < slog.LevelDebug:
		return color.New(color.FgHiBlack)
	case level < slog.LevelInfo:
		return color.New(color.FgBlue)
	case level < slog.LevelWarn:
		return color.New(color.FgGreen)
	case level < slog.LevelError:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
