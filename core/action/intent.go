package action

import (
	"errors"
	"fmt"
)

// Intent is the classification of one thought. It is one of ToolCall,
// FinalAnswer or Malformed.
type Intent interface {
	intent()
}

// ToolCall asks the controller to invoke a tool.
type ToolCall struct {
	Name      string
	Arguments map[string]any
}

// FinalAnswer ends the episode.
type FinalAnswer struct {
	Text string
}

// Malformed is output the parser could not classify.
type Malformed struct {
	Raw    string
	Reason string
}

func (ToolCall) intent()    {}
func (FinalAnswer) intent() {}
func (Malformed) intent()   {}

// Err returns m as a *ParseMalformedError.
func (m Malformed) Err() error {
	return &ParseMalformedError{Reason: m.Reason, Raw: m.Raw}
}

// Malformed reasons.
const (
	ReasonNoMarker       = "no Action or Final Answer marker found"
	ReasonMissingInput   = "Action without Action Input"
	ReasonEmptyTool      = "empty tool name"
	ReasonInputNotObject = "Action Input is not a JSON object"
	ReasonEmptyAnswer    = "empty Final Answer"
)

// ErrMalformed matches every *ParseMalformedError.
var ErrMalformed = errors.New("malformed reasoning output")

// ParseMalformedError reports why a thought could not be classified.
type ParseMalformedError struct {
	Reason string
	Raw    string
}

func (e *ParseMalformedError) Error() string {
	return fmt.Sprintf("could not parse reasoning output: %s", e.Reason)
}

func (e *ParseMalformedError) Is(target error) bool {
	return target == ErrMalformed
}
