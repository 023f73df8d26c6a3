package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/leofalp/reago/core/trace"
	"github.com/leofalp/reago/internal/utils"
	"github.com/leofalp/reago/patterns/react"
)

const (
	answerPreview      = 150
	observationPreview = 500
	rule               = "=================================================="
)

// printer renders trace steps and episode summaries for a terminal.
type printer struct {
	w io.Writer

	thought *color.Color
	action  *color.Color
	result  *color.Color
	failure *color.Color
	answer  *color.Color
	muted   *color.Color
}

func newPrinter(w io.Writer, noColor bool) *printer {
	p := &printer{
		w:       w,
		thought: color.New(color.FgYellow),
		action:  color.New(color.FgGreen),
		result:  color.New(color.FgCyan),
		failure: color.New(color.FgRed),
		answer:  color.New(color.FgGreen, color.Bold),
		muted:   color.New(color.FgHiBlack),
	}
	if noColor {
		for _, c := range []*color.Color{p.thought, p.action, p.result, p.failure, p.answer, p.muted} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) step(s trace.Step) {
	label := p.muted.Sprintf("[%d]", s.Index)
	switch s.Kind {
	case trace.KindThought:
		fmt.Fprintf(p.w, "%s %s\n%s\n", label, p.thought.Sprint("thought"), indent(strings.TrimSpace(s.Text)))
	case trace.KindAction:
		fmt.Fprintf(p.w, "%s %s %s %s\n", label, p.action.Sprint("action"),
			s.Action.ToolName, p.muted.Sprint(utils.Stringify(s.Action.Arguments)))
	case trace.KindObservation:
		c, name := p.result, "observation"
		if s.Observation.Failed() {
			c, name = p.failure, "observation ("+string(s.Observation.Error.Kind)+")"
		}
		fmt.Fprintf(p.w, "%s %s\n%s\n", label, c.Sprint(name),
			indent(utils.TruncateString(s.Observation.String(), observationPreview)))
	case trace.KindFinalAnswer:
		fmt.Fprintf(p.w, "%s %s %s\n", label, p.answer.Sprint("final answer"), s.Text)
	}
}

func (p *printer) summary(title string, res *react.EpisodeResult) {
	fmt.Fprintln(p.w, rule)
	fmt.Fprintln(p.w, title)
	if res.Succeeded() {
		fmt.Fprintf(p.w, "Success: %s\n", p.answer.Sprint("true"))
	} else {
		fmt.Fprintf(p.w, "Success: %s (%s)\n", p.failure.Sprint("false"), res.Outcome)
	}
	fmt.Fprintf(p.w, "Iterations: %d\n", res.Cycles)
	if res.Reason != "" {
		fmt.Fprintf(p.w, "Reason: %s\n", res.Reason)
	}
	if res.Err != nil {
		fmt.Fprintf(p.w, "Error: %v\n", res.Err)
	}
	if res.Answer != "" {
		fmt.Fprintf(p.w, "Final Answer: %s\n", utils.TruncateString(res.Answer, answerPreview))
	}
	fmt.Fprintf(p.w, "Duration: %s\n", res.Duration().Round(time.Microsecond))
}

func indent(s string) string {
	return "    " + strings.ReplaceAll(s, "\n", "\n    ")
}
