package reasoning

import (
	"fmt"
	"strings"

	"github.com/leofalp/reago/core/trace"
	"github.com/leofalp/reago/providers/tool"
)

const formatInstructions = `Use the following format:
Thought: [Your reasoning about what to do next]
Action: [Tool name]
Action Input: {"param": "value"}

OR when you have enough information:
Final Answer: [Your complete answer]`

// BuildPrompt renders req as a ReAct prompt: the numbered tool list, the
// goal, the format instructions and then the trace so far. Thoughts are
// replayed verbatim (they already contain their Action lines) and every
// observation follows as "Observation: ...".
func BuildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("You are an agent that solves tasks by reasoning and calling tools.\n\n")
	if len(req.Tools) > 0 {
		b.WriteString("Available Tools:\n")
		for i, d := range req.Tools {
			fmt.Fprintf(&b, "%d. %s - %s\n", i+1, signature(d), d.Description)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Your task: %s\n\n", req.Goal)
	b.WriteString(formatInstructions)

	for _, step := range req.Trace.All() {
		switch step.Kind {
		case trace.KindThought:
			b.WriteString("\n\n")
			b.WriteString(strings.TrimSpace(step.Text))
		case trace.KindObservation:
			b.WriteString("\nObservation: ")
			if step.Observation != nil {
				b.WriteString(step.Observation.String())
			}
		case trace.KindFinalAnswer:
			b.WriteString("\nFinal Answer: ")
			b.WriteString(step.Text)
		}
	}
	return b.String()
}

// signature renders "name(a, b?)"; optional parameters carry a "?".
func signature(d tool.Description) string {
	names := make([]string, len(d.Params))
	for i, p := range d.Params {
		names[i] = p.Name
		if !p.Required {
			names[i] += "?"
		}
	}
	return fmt.Sprintf("%s(%s)", d.Name, strings.Join(names, ", "))
}
