package slogobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(format Format, level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := NewHandler(&HandlerOptions{Format: format, Level: level, Output: &buf})
	return slog.New(h), &buf
}

func TestHandler_Compact(t *testing.T) {
	logger, buf := newTestLogger(FormatCompact, slog.LevelDebug)
	logger.Info("episode finished", "outcome", "success", "cycles", 2)

	out := buf.String()
	for _, want := range []string{" INFO ", "episode finished", " | ", `"outcome":"success"`, `"cycles":2`} {
		if !strings.Contains(out, want) {
			t.Errorf("compact output missing %q: %s", want, out)
		}
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("compact output should be a single line: %q", out)
	}
}

func TestHandler_CompactNoAttributes(t *testing.T) {
	logger, buf := newTestLogger(FormatCompact, slog.LevelDebug)
	logger.Info("plain")

	if strings.Contains(buf.String(), " | ") || strings.Contains(buf.String(), "{}") {
		t.Errorf("expected no attribute section, got %q", buf.String())
	}
}

func TestHandler_Pretty(t *testing.T) {
	logger, buf := newTestLogger(FormatPretty, slog.LevelDebug)
	logger.Info("step", "zeta", 1, "alpha", "a")

	out := buf.String()
	alpha := strings.Index(out, "    alpha = a\n")
	zeta := strings.Index(out, "    zeta = 1\n")
	if alpha < 0 || zeta < 0 {
		t.Fatalf("pretty output missing attribute lines: %q", out)
	}
	if alpha > zeta {
		t.Errorf("attributes should be sorted by key: %q", out)
	}
}

func TestHandler_JSON(t *testing.T) {
	logger, buf := newTestLogger(FormatJSON, slog.LevelDebug)
	logger.Warn("tool failed", "tool.name", "search", "err", errors.New("boom"))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["level"] != "WARN" || rec["msg"] != "tool failed" {
		t.Errorf("unexpected level/msg: %v", rec)
	}
	if rec["tool.name"] != "search" || rec["err"] != "boom" {
		t.Errorf("unexpected attributes: %v", rec)
	}
	if _, ok := rec["time"]; !ok {
		t.Error("missing time field")
	}
}

func TestHandler_LevelFiltering(t *testing.T) {
	logger, buf := newTestLogger(FormatCompact, slog.LevelWarn)
	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected filtering result: %q", out)
	}
}

func TestHandler_TraceLevel(t *testing.T) {
	logger, buf := newTestLogger(FormatCompact, LevelTrace)
	logger.Log(context.Background(), LevelTrace, "fine grained")

	if !strings.Contains(buf.String(), "TRACE") {
		t.Errorf("expected TRACE label, got %q", buf.String())
	}
}

func TestHandler_WithAttrsAndGroup(t *testing.T) {
	logger, buf := newTestLogger(FormatJSON, slog.LevelDebug)
	logger.With("episode.id", "e1").WithGroup("tool").Info("call", "name", "calc")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["episode.id"] != "e1" {
		t.Errorf("handler attrs lost: %v", rec)
	}
	if rec["tool.name"] != "calc" {
		t.Errorf("group prefix not applied: %v", rec)
	}
}

func TestHandler_ColorsWrapLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&HandlerOptions{Format: FormatCompact, Level: slog.LevelInfo, Output: &buf, Colors: ColorAlways}))
	logger.Error("red")

	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escape in colored output: %q", buf.String())
	}
}
