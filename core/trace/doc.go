// Package trace holds the ordered record of one agent episode.
//
// A [Trace] is append-only and checks its structural rules on every append:
// indices are contiguous from 0, an Action is always followed by exactly one
// Observation, and nothing follows a FinalAnswer. Violations are reported as
// errors wrapping [ErrInvariant] and leave the trace unchanged.
//
// Collaborators that must not mutate the trace (reasoning backends, prompt
// builders) receive a [View], an immutable snapshot that shares storage with
// the trace.
package trace
