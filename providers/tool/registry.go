package tool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/leofalp/reago/internal/utils"
	"github.com/leofalp/reago/providers/observability"
)

// Registry holds tools by case-sensitive name. It is safe for concurrent
// use; once sealed it rejects further registrations.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]*Tool
	order  []string
	sealed bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// NewRegistryWithTools returns a registry holding tools, in order.
func NewRegistryWithTools(tools ...*Tool) (*Registry, error) {
	r := NewRegistry()
	if err := r.Add(tools...); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds a tool built from its parts.
func (r *Registry) Register(name string, schema Schema, handler Handler, opts ...Option) error {
	t := &Tool{Name: name, Schema: schema, Handler: handler}
	for _, opt := range opts {
		opt(t)
	}
	return r.Add(t)
}

// Add registers prebuilt tools, stopping at the first failure.
func (r *Registry) Add(tools ...*Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range tools {
		if err := r.addLocked(t); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) addLocked(t *Tool) error {
	if r.sealed {
		return fmt.Errorf("register '%s': %w", t.Name, ErrRegistrySealed)
	}
	if t.Name == "" {
		return fmt.Errorf("%w: empty tool name", ErrInvalidSchema)
	}
	if t.Handler == nil {
		return fmt.Errorf("%w: tool '%s' has no handler", ErrInvalidSchema, t.Name)
	}
	if err := t.Schema.Validate(); err != nil {
		return fmt.Errorf("tool '%s': %w", t.Name, err)
	}
	if _, exists := r.tools[t.Name]; exists {
		return &DuplicateToolError{Name: t.Name}
	}
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// Seal makes the registry read-only.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Lookup returns the tool called name, or an *UnknownToolError.
func (r *Registry) Lookup(name string) (*Tool, error) {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownToolError{Name: name, Available: r.Names()}
	}
	return t, nil
}

// Has reports whether a tool called name exists.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := slices.Clone(r.order)
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Descriptions returns tool descriptions in registration order.
func (r *Registry) Descriptions() []Description {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Description, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Describe())
	}
	return out
}

// Invoke validates args against the tool's schema and calls its handler.
// Errors are always one of *UnknownToolError, *InvalidArgumentsError,
// *ToolExecutionError or *TimeoutError. When ctx carries a span, start and
// end events are added to it.
func (r *Registry) Invoke(ctx context.Context, name string, args Arguments) (Result, error) {
	t, err := r.Lookup(name)
	if err != nil {
		return Result{}, err
	}
	if err := t.Schema.Check(name, args); err != nil {
		return Result{}, err
	}

	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventToolExecutionStart,
			observability.String(observability.AttrToolName, name),
			observability.String(observability.AttrToolInput, utils.TruncateStringDefault(utils.JSONToString(args))),
		)
	}

	start := time.Now()
	value, err := callHandler(ctx, t, args)
	duration := time.Since(start)

	if err != nil {
		err = classify(ctx, name, err)
		if span != nil {
			span.AddEvent(observability.EventToolExecutionEnd,
				observability.String(observability.AttrToolName, name),
				observability.String(observability.AttrToolError, err.Error()),
				observability.Duration(observability.AttrToolDuration, duration),
			)
		}
		return Result{}, err
	}

	res := Result{Tool: name, Value: value, Text: utils.Stringify(value), Duration: duration}
	if span != nil {
		span.AddEvent(observability.EventToolExecutionEnd,
			observability.String(observability.AttrToolName, name),
			observability.String(observability.AttrToolOutput, utils.TruncateStringDefault(res.Text)),
			observability.Duration(observability.AttrToolDuration, duration),
		)
	}
	return res, nil
}

func callHandler(ctx context.Context, t *Tool, args Arguments) (value any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &ToolExecutionError{Tool: t.Name, Cause: fmt.Errorf("panic: %v\n%s", p, debug.Stack())}
		}
	}()
	if args == nil {
		args = Arguments{}
	}
	return t.Handler(ctx, args)
}

func classify(ctx context.Context, name string, err error) error {
	var timeout *TimeoutError
	if errors.As(err, &timeout) {
		return timeout
	}
	var invalid *InvalidArgumentsError
	if errors.As(err, &invalid) {
		return invalid
	}
	var exec *ToolExecutionError
	if errors.As(err, &exec) {
		return exec
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Scope: ScopeTool, Name: name}
	}
	return &ToolExecutionError{Tool: name, Cause: err}
}
