package react

import (
	"errors"
	"fmt"
	"time"

	"github.com/leofalp/reago/core/trace"
)

// Outcome is how an episode ended.
type Outcome int

const (
	// Success means the backend produced a final answer.
	Success Outcome = iota + 1
	// Exhausted means the cycle budget ran out first.
	Exhausted
	// Aborted means the episode could not continue; see EpisodeResult.Reason.
	Aborted
)

var outcomeNames = map[Outcome]string{
	Success:   "success",
	Exhausted: "exhausted",
	Aborted:   "aborted",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	for k, name := range outcomeNames {
		if name == string(b) {
			*o = k
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

// Abort reasons.
const (
	ReasonUnparseable    = "unparseable output"
	ReasonBackendFailure = "reasoning backend failure"
	ReasonCanceled       = "canceled"

	// ReasonInvariant means the trace rejected a step or the parser returned
	// an intent the controller does not know. Neither happens with the
	// default parser.
	ReasonInvariant = "internal invariant violation"
)

var (
	// ErrReasoningBackend matches every *ReasoningBackendError.
	ErrReasoningBackend = errors.New("reasoning backend failure")

	// ErrCyclesExhausted is the Err of an Exhausted result.
	ErrCyclesExhausted = errors.New("cycle budget exhausted")
)

// ReasoningBackendError wraps an adapter error, timeout or panic.
type ReasoningBackendError struct {
	Cause error
}

func (e *ReasoningBackendError) Error() string {
	return fmt.Sprintf("reasoning backend failure: %v", e.Cause)
}

func (e *ReasoningBackendError) Is(target error) bool { return target == ErrReasoningBackend }

func (e *ReasoningBackendError) Unwrap() error { return e.Cause }

// EpisodeResult is the terminal state of one episode. Trace is always set.
type EpisodeResult struct {
	ID      string
	Goal    string
	Outcome Outcome
	// Answer is the final answer text when Outcome is Success.
	Answer string
	// Reason is one of the Reason constants when Outcome is Aborted.
	Reason string
	// Err is the typed cause for Exhausted and Aborted outcomes.
	Err   error
	Trace *trace.Trace

	// Cycles counts completed Action/Observation pairs.
	Cycles int
	// Malformed counts every unparseable thought, not only consecutive ones.
	Malformed int

	Start time.Time
	End   time.Time
}

// Succeeded reports whether the episode produced a final answer.
func (r *EpisodeResult) Succeeded() bool {
	return r != nil && r.Outcome == Success
}

// Duration is the episode wall time.
func (r *EpisodeResult) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Report is the JSON-friendly export of an EpisodeResult.
type Report struct {
	ID         string         `json:"id"`
	Goal       string         `json:"goal"`
	Outcome    Outcome        `json:"outcome"`
	Answer     string         `json:"answer,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	Error      string         `json:"error,omitempty"`
	Cycles     int            `json:"cycles"`
	Malformed  int            `json:"malformed"`
	Start      time.Time      `json:"start"`
	End        time.Time      `json:"end"`
	DurationMS int64          `json:"duration_ms"`
	Steps      []trace.Record `json:"steps"`
}

// Report exports r with its trace records.
func (r *EpisodeResult) Report() Report {
	rep := Report{
		ID:         r.ID,
		Goal:       r.Goal,
		Outcome:    r.Outcome,
		Answer:     r.Answer,
		Reason:     r.Reason,
		Cycles:     r.Cycles,
		Malformed:  r.Malformed,
		Start:      r.Start,
		End:        r.End,
		DurationMS: r.Duration().Milliseconds(),
	}
	if r.Err != nil {
		rep.Error = r.Err.Error()
	}
	if r.Trace != nil {
		rep.Steps = r.Trace.Records()
	}
	return rep
}
