// Package reasoning defines the boundary between the ReAct controller and
// whatever produces thoughts.
//
// An [Adapter] receives the goal, a read-only view of the episode trace and
// the tool descriptions, and returns the next raw thought. The controller
// treats any adapter error as fatal for the episode.
//
// The package ships a deterministic [Scripted] backend that replays a fixed
// list of thoughts, YAML scenario loading for it ([LoadScenario]), a prompt
// renderer for generative backends ([BuildPrompt]) and adapter middleware
// ([Chain], [WithTimeout], [WithLogging]).
package reasoning
