package trace

import (
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"
)

// ErrInvariant is wrapped by every append that would break the trace's
// structural rules.
var ErrInvariant = errors.New("trace invariant violated")

// Trace is the append-only step log of one episode. It is safe for
// concurrent readers while a single writer appends.
type Trace struct {
	mu    sync.RWMutex
	steps []Step
	now   func() time.Time
}

// Option configures a Trace.
type Option func(*Trace)

// WithClock sets the timestamp source. The default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Trace) {
		if now != nil {
			t.now = now
		}
	}
}

// New returns an empty Trace.
func New(opts ...Option) *Trace {
	t := &Trace{
		steps: make([]Step, 0, 16),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// AppendThought records raw reasoning output.
func (t *Trace) AppendThought(text string) (Step, error) {
	return t.append(Step{Kind: KindThought, Text: text})
}

// AppendAction records a tool call. It must follow a Thought. The trace
// keeps a deep copy of the arguments, so later writes to a.Arguments (by a
// tool handler, say) do not reach the recorded step.
func (t *Trace) AppendAction(a Action) (Step, error) {
	if a.ToolName == "" {
		return Step{}, fmt.Errorf("%w: action without tool name", ErrInvariant)
	}
	a.Arguments = cloneArguments(a.Arguments)
	return t.append(Step{Kind: KindAction, Action: &a})
}

// AppendObservation records a tool result or error. It must follow an
// Action, or a Thought when it reports a parse error.
func (t *Trace) AppendObservation(o Observation) (Step, error) {
	return t.append(Step{Kind: KindObservation, Observation: &o})
}

// AppendFinalAnswer records the episode's answer. It must follow a Thought
// and closes the trace.
func (t *Trace) AppendFinalAnswer(text string) (Step, error) {
	return t.append(Step{Kind: KindFinalAnswer, Text: text})
}

func (t *Trace) append(s Step) (Step, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := checkNext(t.steps, s); err != nil {
		return Step{}, err
	}
	s.Index = len(t.steps)
	s.Timestamp = t.now()
	t.steps = append(t.steps, s)
	return s, nil
}

func checkNext(steps []Step, next Step) error {
	var prev Kind = -1
	if n := len(steps); n > 0 {
		prev = steps[n-1].Kind
	}

	switch {
	case prev == KindFinalAnswer:
		return fmt.Errorf("%w: %s appended after final answer", ErrInvariant, next.Kind)
	case prev == KindAction && next.Kind != KindObservation:
		return fmt.Errorf("%w: action must be followed by an observation, got %s", ErrInvariant, next.Kind)
	}

	switch next.Kind {
	case KindAction, KindFinalAnswer:
		if prev != KindThought {
			return fmt.Errorf("%w: %s must follow a thought", ErrInvariant, next.Kind)
		}
	case KindObservation:
		if prev != KindAction && prev != KindThought {
			return fmt.Errorf("%w: observation must follow an action or a thought", ErrInvariant)
		}
		if prev == KindThought && (next.Observation.Error == nil || next.Observation.Error.Kind != ErrorParse) {
			return fmt.Errorf("%w: only parse errors may follow a thought directly", ErrInvariant)
		}
	case KindThought:
	default:
		return fmt.Errorf("%w: unknown step kind %d", ErrInvariant, int(next.Kind))
	}
	return nil
}

// Len returns the number of steps.
func (t *Trace) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.steps)
}

// Steps returns a copy of all steps.
func (t *Trace) Steps() []Step {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Step, len(t.steps))
	copy(out, t.steps)
	return out
}

// Last returns the most recent step.
func (t *Trace) Last() (Step, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.steps) == 0 {
		return Step{}, false
	}
	return t.steps[len(t.steps)-1], true
}

// Closed reports whether the trace ends with a final answer.
func (t *Trace) Closed() bool {
	last, ok := t.Last()
	return ok && last.Kind == KindFinalAnswer
}

// View returns a read-only snapshot of the steps appended so far. Later
// appends are not visible through it.
func (t *Trace) View() View {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := len(t.steps)
	return View{steps: t.steps[:n:n]}
}

// View is an immutable, ordered snapshot of a Trace.
type View struct {
	steps []Step
}

// NewView builds a View over a copy of steps. Intended for tests and for
// rendering traces restored from records.
func NewView(steps []Step) View {
	return View{steps: append([]Step(nil), steps...)}
}

// Len returns the number of steps in the snapshot.
func (v View) Len() int { return len(v.steps) }

// At returns the i-th step. It panics if i is out of range, like a slice.
func (v View) At(i int) Step { return v.steps[i] }

// Last returns the final step of the snapshot.
func (v View) Last() (Step, bool) {
	if len(v.steps) == 0 {
		return Step{}, false
	}
	return v.steps[len(v.steps)-1], true
}

// All iterates over the steps in order.
func (v View) All() iter.Seq2[int, Step] {
	return func(yield func(int, Step) bool) {
		for i, s := range v.steps {
			if !yield(i, s) {
				return
			}
		}
	}
}

// Count returns the number of steps of kind k.
func (v View) Count(k Kind) int {
	n := 0
	for _, s := range v.steps {
		if s.Kind == k {
			n++
		}
	}
	return n
}
