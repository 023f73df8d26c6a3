package nebula

import (
	"bytes"
	_ "embed"

	"github.com/leofalp/reago/providers/reasoning"
)

//go:embed scenario.yaml
var scenarioYAML []byte

// Scenario returns the scripted nebula navigation episode: six sector scans
// followed by the route as final answer.
func Scenario() (*reasoning.Scenario, error) {
	return reasoning.LoadScenario(bytes.NewReader(scenarioYAML))
}

// RouteAnswerPrefix is how the scripted final answer begins.
const RouteAnswerPrefix = "Safe navigation path plotted. Route: (0,0) → (1,0) → (2,0) → (2,2)."
