package trace

import (
	"fmt"
	"time"
)

// Kind identifies what a Step records.
type Kind int

const (
	KindThought Kind = iota
	KindAction
	KindObservation
	KindFinalAnswer
)

var kindNames = [...]string{
	KindThought:     "thought",
	KindAction:      "action",
	KindObservation: "observation",
	KindFinalAnswer: "final_answer",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown step kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown step kind %q", b)
}

// ErrorKind classifies a failed observation.
type ErrorKind string

const (
	ErrorUnknownTool      ErrorKind = "unknown_tool"
	ErrorInvalidArguments ErrorKind = "invalid_arguments"
	ErrorToolExecution    ErrorKind = "tool_execution"
	ErrorTimeout          ErrorKind = "timeout"
	ErrorParse            ErrorKind = "parse_error"
)

// Action is a requested tool invocation. Arguments of an appended action
// belong to the trace and must be treated as read-only.
type Action struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
}

func cloneArguments(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies the containers a decoded JSON value can hold. Scalars
// are immutable and returned as is.
func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneArguments(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// ObservationError describes why an observation carries no result.
type ObservationError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Observation is the outcome fed back to the reasoning backend: either the
// tool's rendered result or an error. ToolName is empty for observations
// that answer a malformed thought.
type Observation struct {
	ToolName string            `json:"tool_name,omitempty"`
	Result   string            `json:"result,omitempty"`
	Error    *ObservationError `json:"error,omitempty"`
}

// Failed reports whether the observation carries an error.
func (o Observation) Failed() bool {
	return o.Error != nil
}

// String renders the observation the way it is shown to the reasoning
// backend: the result verbatim, or "Error: <message>".
func (o Observation) String() string {
	if o.Error != nil {
		return "Error: " + o.Error.Message
	}
	return o.Result
}

// Step is one entry of a Trace. Exactly one payload field is meaningful for
// a given Kind: Text for thoughts and final answers, Action for actions,
// Observation for observations.
type Step struct {
	Index       int
	Kind        Kind
	Timestamp   time.Time
	Text        string
	Action      *Action
	Observation *Observation
}

// Payload returns the kind-specific payload of s.
func (s Step) Payload() any {
	switch s.Kind {
	case KindAction:
		if s.Action != nil {
			return *s.Action
		}
	case KindObservation:
		if s.Observation != nil {
			return *s.Observation
		}
	}
	return TextPayload{Text: s.Text}
}

// TextPayload is the exported payload of thoughts and final answers.
type TextPayload struct {
	Text string `json:"text"`
}
