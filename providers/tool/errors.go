package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leofalp/reago/core/trace"
)

var (
	ErrDuplicateTool    = errors.New("tool already registered")
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid tool arguments")
	ErrToolExecution    = errors.New("tool execution failed")
	ErrTimeout          = errors.New("timed out")
	ErrRegistrySealed   = errors.New("registry is sealed")
	ErrInvalidSchema    = errors.New("invalid tool schema")
)

// DuplicateToolError is returned by Register when the name is taken.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool '%s' already registered", e.Name)
}

func (e *DuplicateToolError) Is(target error) bool { return target == ErrDuplicateTool }

// UnknownToolError is returned when no tool has the requested name.
type UnknownToolError struct {
	Name      string
	Available []string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("Tool '%s' not found. Available tools: [%s]", e.Name, strings.Join(e.Available, ", "))
}

func (e *UnknownToolError) Is(target error) bool { return target == ErrUnknownTool }

// FieldError describes one argument whose value does not match its
// declared type or enum.
type FieldError struct {
	Name string
	Want string
	Got  string
}

// InvalidArgumentsError lists every way the arguments failed the schema.
type InvalidArgumentsError struct {
	Tool     string
	Missing  []string
	Extra    []string
	Mistyped []FieldError
	// Cause is set when decoding into a typed input failed after the
	// schema check passed.
	Cause error
}

func (e *InvalidArgumentsError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields ["+strings.Join(e.Missing, ", ")+"]")
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected fields ["+strings.Join(e.Extra, ", ")+"]")
	}
	for _, f := range e.Mistyped {
		parts = append(parts, fmt.Sprintf("field '%s' must be %s, got %s", f.Name, f.Want, f.Got))
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return fmt.Sprintf("invalid arguments for tool '%s': %s", e.Tool, strings.Join(parts, "; "))
}

func (e *InvalidArgumentsError) Is(target error) bool { return target == ErrInvalidArguments }

func (e *InvalidArgumentsError) Unwrap() error { return e.Cause }

func (e *InvalidArgumentsError) empty() bool {
	return len(e.Missing) == 0 && len(e.Extra) == 0 && len(e.Mistyped) == 0 && e.Cause == nil
}

// ToolExecutionError wraps a handler failure or recovered panic.
type ToolExecutionError struct {
	Tool  string
	Cause error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool '%s' failed: %v", e.Tool, e.Cause)
}

func (e *ToolExecutionError) Is(target error) bool { return target == ErrToolExecution }

func (e *ToolExecutionError) Unwrap() error { return e.Cause }

// Scope says which collaborator hit a deadline.
type Scope string

const (
	ScopeTool      Scope = "tool"
	ScopeReasoning Scope = "reasoning"
)

// TimeoutError reports a call that did not finish within its deadline.
// It matches both ErrTimeout and context.DeadlineExceeded.
type TimeoutError struct {
	Scope Scope
	Name  string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	if e.After > 0 {
		return fmt.Sprintf("%s '%s' timed out after %s", e.Scope, e.Name, e.After)
	}
	return fmt.Sprintf("%s '%s' timed out", e.Scope, e.Name)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout || target == context.DeadlineExceeded
}

// ErrorKind maps an Invoke error to the observation error kind.
func ErrorKind(err error) trace.ErrorKind {
	switch {
	case errors.Is(err, ErrUnknownTool):
		return trace.ErrorUnknownTool
	case errors.Is(err, ErrInvalidArguments):
		return trace.ErrorInvalidArguments
	case errors.Is(err, ErrTimeout):
		return trace.ErrorTimeout
	default:
		return trace.ErrorToolExecution
	}
}
