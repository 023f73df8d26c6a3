// Package action classifies raw reasoning output into an [Intent].
//
// The expected format is the ReAct transcript:
//
//	Thought: <free text>
//	Action: <tool name>
//	Action Input: <JSON object>
//
// or
//
//	Final Answer: <text>
//
// Markers are matched case-insensitively with loose spacing ("action input",
// "ACTION_INPUT" and "Action Input :" all work). Final Answer and Observation
// markers only count at the start of a line. A Final Answer marker wins
// over an Action. Parsing never fails: anything that cannot be classified is
// returned as [Malformed] with a reason.
package action
