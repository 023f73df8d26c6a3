package react

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/leofalp/reago/core/action"
	"github.com/leofalp/reago/core/trace"
	"github.com/leofalp/reago/providers/observability"
	"github.com/leofalp/reago/providers/reasoning"
	"github.com/leofalp/reago/providers/tool"
)

// ErrNilDependency is returned by New when the registry or adapter is nil.
var ErrNilDependency = errors.New("react: registry and adapter are required")

// Controller runs episodes against one tool registry and one reasoning
// backend. It holds no per-episode state, so concurrent episodes are safe
// as long as the adapter is.
type Controller struct {
	registry *tool.Registry
	adapter  reasoning.Adapter
	parser   Parser
	observer observability.Provider
	now      func() time.Time
	newID    func() string
}

// New returns a Controller. The registry is sealed: tools must be registered
// before the controller is built.
func New(registry *tool.Registry, adapter reasoning.Adapter, opts ...Option) (*Controller, error) {
	if registry == nil || adapter == nil {
		return nil, ErrNilDependency
	}
	c := defaultController()
	c.registry = registry
	c.adapter = adapter
	for _, opt := range opts {
		opt(c)
	}
	registry.Seal()
	return c, nil
}

// Registry returns the controller's tool registry.
func (c *Controller) Registry() *tool.Registry { return c.registry }

// RunEpisode drives one episode to completion. The error is non-nil only
// when cfg is invalid; everything that happens after the episode starts is
// reported in the result.
func (c *Controller) RunEpisode(ctx context.Context, goal string, cfg Config) (*EpisodeResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	e := c.newEpisode(goal, cfg.withDefaults(), nil)
	return e.run(ctx), nil
}

// episode is the mutable state of a single run.
type episode struct {
	c     *Controller
	cfg   Config
	goal  string
	trace *trace.Trace
	tools []tool.Description
	obs   observerState

	// emit is called with every committed step; nil when not streaming.
	emit func(trace.Step)

	cycles         int
	malformedRun   int
	malformedTotal int
	start          time.Time
}

func (c *Controller) newEpisode(goal string, cfg Config, emit func(trace.Step)) *episode {
	return &episode{
		c:     c,
		cfg:   cfg,
		goal:  goal,
		trace: trace.New(trace.WithClock(c.now)),
		tools: c.registry.Descriptions(),
		emit:  emit,
	}
}

func (e *episode) run(ctx context.Context) *EpisodeResult {
	e.start = e.c.now()
	id := e.c.newID()
	ctx = e.observeStart(ctx, id)

	result := e.loop(ctx)
	result.ID = id
	result.Goal = e.goal
	result.Trace = e.trace
	result.Cycles = e.cycles
	result.Malformed = e.malformedTotal
	result.Start = e.start
	result.End = e.c.now()

	e.observeEnd(ctx, result)
	return result
}

func (e *episode) loop(ctx context.Context) *EpisodeResult {
	for {
		// Thinking.
		if err := ctx.Err(); err != nil {
			return aborted(ReasonCanceled, err)
		}
		if e.cycles >= e.cfg.MaxCycles {
			return &EpisodeResult{
				Outcome: Exhausted,
				Err:     fmt.Errorf("%w: %d cycles without a final answer", ErrCyclesExhausted, e.cycles),
			}
		}

		thought, err := e.think(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return aborted(ReasonCanceled, ctx.Err())
			}
			return aborted(ReasonBackendFailure, &ReasoningBackendError{Cause: err})
		}
		if res := e.commit(e.trace.AppendThought, thought); res != nil {
			return res
		}
		if err := ctx.Err(); err != nil {
			return aborted(ReasonCanceled, err)
		}

		switch intent := e.c.parser.Parse(thought).(type) {
		case action.FinalAnswer:
			if res := e.commit(e.trace.AppendFinalAnswer, intent.Text); res != nil {
				return res
			}
			return &EpisodeResult{Outcome: Success, Answer: intent.Text}

		case action.ToolCall:
			e.malformedRun = 0
			if res := e.act(ctx, intent); res != nil {
				return res
			}
			e.cycles++

		case action.Malformed:
			e.malformedRun++
			e.malformedTotal++
			perr := intent.Err()
			e.observeMalformed(ctx, intent.Reason)
			if e.malformedRun > e.cfg.MaxMalformedRetries {
				return aborted(ReasonUnparseable, perr)
			}
			obs := trace.Observation{Error: &trace.ObservationError{Kind: trace.ErrorParse, Message: perr.Error()}}
			if res := e.commitObservation(obs); res != nil {
				return res
			}

		default:
			return aborted(ReasonInvariant, fmt.Errorf("parser returned unsupported intent %T", intent))
		}
	}
}

// act runs the Acting and Observing states for one tool call.
func (e *episode) act(ctx context.Context, call action.ToolCall) *EpisodeResult {
	step, err := e.trace.AppendAction(trace.Action{ToolName: call.Name, Arguments: call.Arguments})
	if err != nil {
		return aborted(ReasonInvariant, err)
	}
	e.committed(step)

	res, err := e.invoke(ctx, call)
	obs := trace.Observation{ToolName: call.Name}
	if err != nil {
		obs.Error = &trace.ObservationError{Kind: tool.ErrorKind(err), Message: err.Error()}
	} else {
		obs.Result = res.Text
	}
	return e.commitObservation(obs)
}

func (e *episode) think(ctx context.Context) (string, error) {
	req := reasoning.Request{Goal: e.goal, Trace: e.trace.View(), Tools: e.tools}

	spanCtx, span := e.startReasoningSpan(ctx)
	start := time.Now()
	thought, err := bounded(spanCtx, e.cfg.ReasoningTimeout, func(ctx context.Context) (string, error) {
		return e.c.adapter.NextThought(ctx, req)
	})
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		err = &tool.TimeoutError{Scope: tool.ScopeReasoning, Name: "next_thought", After: e.cfg.ReasoningTimeout}
	}
	e.observeReasoning(spanCtx, span, thought, time.Since(start), err)
	return thought, err
}

func (e *episode) invoke(ctx context.Context, call action.ToolCall) (tool.Result, error) {
	spanCtx, span := e.startToolSpan(ctx, call.Name)
	start := time.Now()
	res, err := bounded(spanCtx, e.cfg.ToolTimeout, func(ctx context.Context) (tool.Result, error) {
		return e.c.registry.Invoke(ctx, call.Name, call.Arguments)
	})
	if err != nil {
		var typed *tool.TimeoutError
		switch {
		case errors.As(err, &typed):
			if typed.After == 0 {
				typed.After = e.cfg.ToolTimeout
			}
		case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
			err = &tool.TimeoutError{Scope: tool.ScopeTool, Name: call.Name, After: e.cfg.ToolTimeout}
		case ctx.Err() != nil:
			err = &tool.ToolExecutionError{Tool: call.Name, Cause: err}
		}
	}
	e.observeTool(spanCtx, span, call.Name, time.Since(start), err)
	return res, err
}

// commit appends a text step and reports it. A non-nil result means the
// trace rejected the step.
func (e *episode) commit(appendFn func(string) (trace.Step, error), text string) *EpisodeResult {
	step, err := appendFn(text)
	if err != nil {
		return aborted(ReasonInvariant, err)
	}
	e.committed(step)
	return nil
}

func (e *episode) commitObservation(obs trace.Observation) *EpisodeResult {
	step, err := e.trace.AppendObservation(obs)
	if err != nil {
		return aborted(ReasonInvariant, err)
	}
	e.committed(step)
	return nil
}

func (e *episode) committed(step trace.Step) {
	e.observeStep(step)
	if e.emit != nil {
		e.emit(step)
	}
}

func aborted(reason string, err error) *EpisodeResult {
	return &EpisodeResult{Outcome: Aborted, Reason: reason, Err: err}
}

type outcome[T any] struct {
	value T
	err   error
}

// bounded runs fn in its own goroutine and stops waiting when ctx is done or
// the timeout expires, even if fn ignores its context. Panics in fn are
// returned as errors.
func bounded[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan outcome[T], 1)
	go func() {
		var out outcome[T]
		defer func() {
			if p := recover(); p != nil {
				out.err = fmt.Errorf("panic: %v\n%s", p, debug.Stack())
			}
			done <- out
		}()
		out.value, out.err = fn(ctx)
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
