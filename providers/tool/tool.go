package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/leofalp/reago/core/parse"
	"github.com/leofalp/reago/internal/jsonschema"
)

// Arguments are decoded tool inputs keyed by parameter name.
type Arguments map[string]any

// Handler executes a tool. The returned value becomes the observation text:
// strings verbatim, everything else JSON-encoded.
type Handler func(ctx context.Context, args Arguments) (any, error)

// Tool is a registered, callable tool.
type Tool struct {
	Name        string
	Description string
	Schema      Schema
	Handler     Handler
}

// Description is what reasoning backends see of a tool.
type Description struct {
	Name        string
	Description string
	Params      Schema
	Parameters  *jsonschema.Schema
}

// Describe returns the prompt-facing description of t.
func (t *Tool) Describe() Description {
	return Description{
		Name:        t.Name,
		Description: t.Description,
		Params:      t.Schema,
		Parameters:  t.Schema.JSONSchema(),
	}
}

// Result is the outcome of a successful invocation.
type Result struct {
	Tool     string
	Value    any
	Text     string
	Duration time.Duration
}

// Option configures a Tool at construction or registration.
type Option func(*Tool)

// WithDescription sets the human-readable description shown to the
// reasoning backend.
func WithDescription(description string) Option {
	return func(t *Tool) {
		t.Description = description
	}
}

// NewTool builds a Tool around a typed function. The schema is derived from
// struct I and arguments are decoded into I before fn is called; decode
// failures surface as *InvalidArgumentsError.
func NewTool[I, O any](name string, fn func(ctx context.Context, input I) (O, error), opts ...Option) (*Tool, error) {
	schema, err := SchemaFor[I]()
	if err != nil {
		return nil, fmt.Errorf("tool '%s': %w", name, err)
	}

	t := &Tool{
		Name:   name,
		Schema: schema,
		Handler: func(ctx context.Context, args Arguments) (any, error) {
			data, err := json.Marshal(args)
			if err != nil {
				return nil, &InvalidArgumentsError{Tool: name, Cause: err}
			}
			input, err := parse.ParseStringAs[I](string(data))
			if err != nil {
				return nil, &InvalidArgumentsError{Tool: name, Cause: err}
			}
			return fn(ctx, input)
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// MustNewTool is NewTool that panics on error. Meant for package-level tool
// definitions whose input types are known to be valid.
func MustNewTool[I, O any](name string, fn func(ctx context.Context, input I) (O, error), opts ...Option) *Tool {
	t, err := NewTool(name, fn, opts...)
	if err != nil {
		panic(err)
	}
	return t
}
