package reasoning

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/leofalp/reago/core/trace"
)

// ErrScriptExhausted is returned by Scripted when every thought has been
// replayed and no fallback is set.
var ErrScriptExhausted = errors.New("script exhausted")

// DefaultFallback is the thought a Scripted backend with WithDefaultFallback
// returns once its script runs out.
const DefaultFallback = "Final Answer: Maximum steps reached without finding solution."

// Scripted replays a fixed list of thoughts. The n-th call within an episode
// is answered with the n-th thought, where n is the number of Thought steps
// already in the request trace. It keeps no per-episode state, so one value
// can serve concurrent episodes.
type Scripted struct {
	thoughts    []string
	fallback    string
	hasFallback bool
}

type ScriptedOption func(*Scripted)

// WithFallback sets the thought returned after the script runs out.
func WithFallback(thought string) ScriptedOption {
	return func(s *Scripted) {
		s.fallback = thought
		s.hasFallback = true
	}
}

// WithDefaultFallback is WithFallback(DefaultFallback).
func WithDefaultFallback() ScriptedOption {
	return WithFallback(DefaultFallback)
}

func NewScripted(thoughts []string, opts ...ScriptedOption) *Scripted {
	s := &Scripted{thoughts: slices.Clone(thoughts)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len returns the number of scripted thoughts.
func (s *Scripted) Len() int { return len(s.thoughts) }

// NextThought returns the scripted thought for the current position in the
// trace.
func (s *Scripted) NextThought(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	n := req.Trace.Count(trace.KindThought)
	if n < len(s.thoughts) {
		return s.thoughts[n], nil
	}
	if s.hasFallback {
		return s.fallback, nil
	}
	return "", fmt.Errorf("%w: %d thoughts replayed", ErrScriptExhausted, len(s.thoughts))
}
