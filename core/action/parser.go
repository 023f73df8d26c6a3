package action

import (
	"errors"
	"regexp"
	"strings"

	"github.com/leofalp/reago/core/parse"
)

// Markers are the keywords of the transcript grammar. Multi-word markers
// match with any run of spaces, underscores or hyphens between the words,
// including none.
type Markers struct {
	Action      string
	ActionInput string
	FinalAnswer string
	Observation string
}

// DefaultMarkers returns the standard ReAct keywords.
func DefaultMarkers() Markers {
	return Markers{
		Action:      "Action",
		ActionInput: "Action Input",
		FinalAnswer: "Final Answer",
		Observation: "Observation",
	}
}

// Option configures a Parser.
type Option func(*Markers)

// WithMarkers replaces the keywords. Empty fields keep their defaults.
func WithMarkers(m Markers) Option {
	return func(cur *Markers) {
		if m.Action != "" {
			cur.Action = m.Action
		}
		if m.ActionInput != "" {
			cur.ActionInput = m.ActionInput
		}
		if m.FinalAnswer != "" {
			cur.FinalAnswer = m.FinalAnswer
		}
		if m.Observation != "" {
			cur.Observation = m.Observation
		}
	}
}

// Parser turns thoughts into intents. It is stateless and safe for
// concurrent use.
type Parser struct {
	finalAnswer *regexp.Regexp
	action      *regexp.Regexp
	actionInput *regexp.Regexp
	observation *regexp.Regexp
}

// NewParser compiles a parser for the configured markers.
func NewParser(opts ...Option) *Parser {
	m := DefaultMarkers()
	for _, opt := range opts {
		opt(&m)
	}
	return &Parser{
		finalAnswer: lineMarkerRegexp(m.FinalAnswer),
		action:      markerRegexp(m.Action),
		actionInput: markerRegexp(m.ActionInput),
		observation: lineMarkerRegexp(m.Observation),
	}
}

// markerRegexp matches `<word>[sep]*<word>... :` at a word boundary.
func markerRegexp(marker string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + markerPattern(marker))
}

// lineMarkerRegexp matches the marker only at the start of a line, so the
// same words inside an Action Input payload are not mistaken for it.
func lineMarkerRegexp(marker string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t]*` + markerPattern(marker))
}

func markerPattern(marker string) string {
	words := strings.Fields(marker)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(words, `[\s_-]*`) + `[ \t]*:`
}

var defaultParser = NewParser()

// Parse classifies text with the default markers.
func Parse(text string) Intent {
	return defaultParser.Parse(text)
}

// Parse classifies text. It never panics and never returns nil.
func (p *Parser) Parse(text string) Intent {
	if loc := p.finalAnswer.FindStringIndex(text); loc != nil {
		answer := strings.TrimSpace(text[loc[1]:])
		if answer == "" {
			return Malformed{Raw: text, Reason: ReasonEmptyAnswer}
		}
		return FinalAnswer{Text: answer}
	}

	actionLoc := p.action.FindStringIndex(text)
	if actionLoc == nil {
		return Malformed{Raw: text, Reason: ReasonNoMarker}
	}

	rest := text[actionLoc[1]:]
	inputLoc := p.actionInput.FindStringIndex(rest)

	nameEnd := len(rest)
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		nameEnd = nl
	}
	if inputLoc != nil && inputLoc[0] < nameEnd {
		nameEnd = inputLoc[0]
	}
	name := cleanToolName(rest[:nameEnd])
	if name == "" {
		return Malformed{Raw: text, Reason: ReasonEmptyTool}
	}
	if inputLoc == nil {
		return Malformed{Raw: text, Reason: ReasonMissingInput}
	}

	input := rest[inputLoc[1]:]
	// Models often continue the transcript with an invented observation.
	if obs := p.observation.FindStringIndex(input); obs != nil {
		input = input[:obs[0]]
	}
	args, err := parse.ParseObject(input)
	if err != nil {
		reason := ReasonInputNotObject
		if errors.Is(err, parse.ErrNoJSON) && strings.TrimSpace(input) == "" {
			reason = ReasonInputNotObject + ": empty"
		}
		return Malformed{Raw: text, Reason: reason}
	}
	return ToolCall{Name: name, Arguments: args}
}

const nameWrappers = "\"'`*"

func cleanToolName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, nameWrappers)
	s = strings.TrimRight(s, ".,;:!?")
	s = strings.Trim(s, nameWrappers)
	if fields := strings.Fields(s); len(fields) > 0 {
		s = fields[0]
	} else {
		return ""
	}
	s = strings.TrimRight(s, ".,;:!?")
	return strings.Trim(s, nameWrappers+"()[]")
}
