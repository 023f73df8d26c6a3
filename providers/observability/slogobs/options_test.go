package slogobs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/leofalp/reago/providers/observability"
)

func TestResolve_Defaults(t *testing.T) {
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogLevel, "debug")

	s := resolve(nil)
	if s.format != FormatJSON || s.level != slog.LevelDebug {
		t.Errorf("env defaults not applied: format=%v level=%v", s.format, s.level)
	}
	if s.colors != ColorAuto {
		t.Errorf("colors = %v, want auto", s.colors)
	}

	s = resolve([]Option{WithFormat(FormatPretty), WithLevel(slog.LevelError), WithOutput(nil)})
	if s.format != FormatPretty || s.level != slog.LevelError {
		t.Errorf("options must override env: %+v", s)
	}
	if s.output == nil {
		t.Error("WithOutput(nil) must keep the default writer")
	}
}

func TestWithColors(t *testing.T) {
	tests := []struct {
		enabled bool
		want    ColorMode
	}{
		{true, ColorAlways},
		{false, ColorNever},
	}
	for _, tt := range tests {
		if got := resolve([]Option{WithColors(tt.enabled)}).colors; got != tt.want {
			t.Errorf("WithColors(%v) = %v, want %v", tt.enabled, got, tt.want)
		}
	}
}

func TestNew_ColorsNeverOnColorlessOutput(t *testing.T) {
	var buf bytes.Buffer
	New(WithOutput(&buf), WithFormat(FormatCompact), WithColors(false)).Info(t.Context(), "plain")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("unexpected ANSI escape: %q", buf.String())
	}
}

func TestNew_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	obs := New(
		WithOutput(&buf),
		WithFormat(FormatJSON),
		WithLevel(slog.LevelInfo),
		WithAttrs(observability.String("service", "reago")),
	)
	obs.Info(t.Context(), "hello", observability.Int(observability.AttrEpisodeCycles, 2))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON record %q: %v", buf.String(), err)
	}
	if rec["service"] != "reago" {
		t.Errorf("static attribute missing: %v", rec)
	}
	if rec[observability.AttrEpisodeCycles] != float64(2) {
		t.Errorf("call attribute missing: %v", rec)
	}
}

func TestNew_WithLoggerBypassesHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	obs := New(WithLogger(logger), WithFormat(FormatJSON), WithAttrs(observability.String("run", "r1")))
	obs.Warn(t.Context(), "via text handler")

	out := buf.String()
	if !strings.Contains(out, `msg="via text handler"`) || !strings.Contains(out, "run=r1") {
		t.Errorf("record not routed through the given logger: %q", out)
	}
}
