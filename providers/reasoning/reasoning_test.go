package reasoning

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/leofalp/reago/core/trace"
	"github.com/leofalp/reago/providers/tool"
)

func requestWithThoughts(t *testing.T, n int) Request {
	t.Helper()
	tr := trace.New()
	for i := 0; i < n; i++ {
		if _, err := tr.AppendThought("Thought: hmm"); err != nil {
			t.Fatal(err)
		}
		obs := trace.Observation{Error: &trace.ObservationError{Kind: trace.ErrorParse, Message: "no marker"}}
		if _, err := tr.AppendObservation(obs); err != nil {
			t.Fatal(err)
		}
	}
	return Request{Goal: "g", Trace: tr.View()}
}

func TestScripted_ReplaysByTracePosition(t *testing.T) {
	s := NewScripted([]string{"one", "two"})

	for i, want := range []string{"one", "two"} {
		got, err := s.NextThought(context.Background(), requestWithThoughts(t, i))
		if err != nil || got != want {
			t.Errorf("call %d = %q, %v; want %q", i, got, err, want)
		}
	}

	// Same position, same answer: no hidden cursor.
	if got, _ := s.NextThought(context.Background(), requestWithThoughts(t, 0)); got != "one" {
		t.Errorf("replay from start = %q", got)
	}

	_, err := s.NextThought(context.Background(), requestWithThoughts(t, 2))
	if !errors.Is(err, ErrScriptExhausted) {
		t.Errorf("expected ErrScriptExhausted, got %v", err)
	}
}

func TestScripted_Fallback(t *testing.T) {
	s := NewScripted([]string{"one"}, WithDefaultFallback())
	got, err := s.NextThought(context.Background(), requestWithThoughts(t, 5))
	if err != nil || got != DefaultFallback {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestScripted_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewScripted([]string{"x"}).NextThought(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLoadScenarioFile(t *testing.T) {
	s, err := LoadScenarioFile("testdata/search.yaml")
	if err != nil {
		t.Fatalf("LoadScenarioFile() error: %v", err)
	}
	if s.Name != "search" || s.Goal != "What is the capital of France?" || len(s.Thoughts) != 2 {
		t.Errorf("unexpected scenario %+v", s)
	}
	if !strings.HasPrefix(s.Thoughts[0], "Thought: I should look this up.\nAction: search\n") {
		t.Errorf("block scalar not preserved: %q", s.Thoughts[0])
	}
	if s.Config.MaxCycles != 3 || s.Config.ToolTimeout != 1500*time.Millisecond {
		t.Errorf("config = %+v", s.Config)
	}

	got, err := s.Adapter().NextThought(context.Background(), requestWithThoughts(t, 9))
	if err != nil || got != "Final Answer: I could not find it." {
		t.Errorf("fallback = %q, %v", got, err)
	}
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := map[string]string{
		"missing goal":     "thoughts: [a]\n",
		"missing thoughts": "goal: g\n",
		"negative budget":  "goal: g\nthoughts: [a]\nconfig:\n  max_cycles: -1\n",
		"retries below -1": "goal: g\nthoughts: [a]\nconfig:\n  max_malformed_retries: -2\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadScenario(strings.NewReader(doc)); !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("expected ErrInvalidScenario, got %v", err)
			}
		})
	}

	if _, err := LoadScenario(strings.NewReader("goal: g\nthoughts: [a]\nturns: 3\n")); err == nil {
		t.Error("unknown key should be rejected")
	}
}

func TestBuildPrompt(t *testing.T) {
	calc := tool.MustNewTool("scan", func(_ context.Context, in struct {
		X int `json:"x"`
		Y int `json:"y,omitempty"`
	}) (string, error) {
		return "", nil
	}, tool.WithDescription("Scan a sector"))

	tr := trace.New()
	mustOK := func(_ trace.Step, err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	mustOK(tr.AppendThought("Thought: look\nAction: scan\nAction Input: {\"x\": 1}"))
	mustOK(tr.AppendAction(trace.Action{ToolName: "scan", Arguments: map[string]any{"x": 1}}))
	mustOK(tr.AppendObservation(trace.Observation{ToolName: "scan", Result: `{"safe":true}`}))

	prompt := BuildPrompt(Request{Goal: "reach the exit", Trace: tr.View(), Tools: []tool.Description{calc.Describe()}})

	for _, want := range []string{
		"1. scan(x, y?) - Scan a sector",
		"Your task: reach the exit",
		"Final Answer: [Your complete answer]",
		"Action Input: {\"x\": 1}\nObservation: {\"safe\":true}",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Count(prompt, "Action: scan") != 1 {
		t.Errorf("action should appear once, via the thought:\n%s", prompt)
	}
}

func TestChain_Order(t *testing.T) {
	var calls []string
	mark := func(name string) Middleware {
		return func(next Adapter) Adapter {
			return AdapterFunc(func(ctx context.Context, req Request) (string, error) {
				calls = append(calls, name)
				return next.NextThought(ctx, req)
			})
		}
	}
	base := AdapterFunc(func(context.Context, Request) (string, error) {
		calls = append(calls, "base")
		return "ok", nil
	})

	if _, err := Chain(base, mark("outer"), mark("inner")).NextThought(context.Background(), Request{}); err != nil {
		t.Fatal(err)
	}
	if strings.Join(calls, ",") != "outer,inner,base" {
		t.Errorf("call order = %v", calls)
	}
}

func TestWithTimeout(t *testing.T) {
	slow := AdapterFunc(func(ctx context.Context, _ Request) (string, error) {
		select {
		case <-time.After(time.Second):
			return "late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	_, err := Chain(slow, WithTimeout(20*time.Millisecond)).NextThought(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

func TestWithLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ok := AdapterFunc(func(context.Context, Request) (string, error) { return "Final Answer: 42", nil })
	if _, err := Chain(ok, WithLogging(logger, LogLevelVerbose)).NextThought(context.Background(), Request{Goal: "answer"}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"reasoning request", "reasoning completed", "goal=answer", "Final Answer: 42"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	boom := AdapterFunc(func(context.Context, Request) (string, error) { return "", errors.New("backend down") })
	if _, err := Chain(boom, WithLogging(logger, LogLevelMinimal)).NextThought(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(buf.String(), "backend down") || strings.Contains(buf.String(), "trace_steps") {
		t.Errorf("unexpected log:\n%s", buf.String())
	}
}
