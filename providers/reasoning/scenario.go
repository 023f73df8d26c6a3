package reasoning

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/leofalp/reago/internal/utils"
)

// ErrInvalidScenario is wrapped by scenario validation failures.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a scripted episode loaded from YAML:
//
//	name: nebula
//	goal: Plot a safe course ...
//	fallback: "Final Answer: ..."
//	config:
//	  max_cycles: 10
//	  tool_timeout: 2s
//	thoughts:
//	  - |
//	    Thought: ...
//	    Action: scan_sector_hazards
//	    Action Input: {"x": 1, "y": 0}
type Scenario struct {
	Name     string         `yaml:"name"`
	Goal     string         `yaml:"goal"`
	Thoughts []string       `yaml:"thoughts"`
	Fallback *string        `yaml:"fallback,omitempty"`
	Config   ScenarioConfig `yaml:"config,omitempty"`
}

// ScenarioConfig overrides episode budgets. Zero fields keep the caller's
// defaults; max_malformed_retries: -1 aborts on the first malformed thought.
type ScenarioConfig struct {
	MaxCycles           int           `yaml:"max_cycles,omitempty"`
	MaxMalformedRetries int           `yaml:"max_malformed_retries,omitempty"`
	ReasoningTimeout    time.Duration `yaml:"reasoning_timeout,omitempty"`
	ToolTimeout         time.Duration `yaml:"tool_timeout,omitempty"`
}

// LoadScenario decodes and validates one YAML scenario. Unknown keys are
// rejected.
func LoadScenario(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScenarioFile reads a scenario from path. A scenario without a name is
// named after the file.
func LoadScenarioFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer utils.CloseWithLog(f)

	s, err := LoadScenario(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Validate checks that the scenario can drive an episode.
func (s *Scenario) Validate() error {
	if s.Goal == "" {
		return fmt.Errorf("%w: goal is required", ErrInvalidScenario)
	}
	if len(s.Thoughts) == 0 {
		return fmt.Errorf("%w: at least one thought is required", ErrInvalidScenario)
	}
	c := s.Config
	if c.MaxCycles < 0 || c.MaxMalformedRetries < -1 || c.ReasoningTimeout < 0 || c.ToolTimeout < 0 {
		return fmt.Errorf("%w: config values must not be negative (max_malformed_retries allows -1)", ErrInvalidScenario)
	}
	return nil
}

// Adapter returns a Scripted backend replaying the scenario.
func (s *Scenario) Adapter() *Scripted {
	var opts []ScriptedOption
	if s.Fallback != nil {
		opts = append(opts, WithFallback(*s.Fallback))
	}
	return NewScripted(s.Thoughts, opts...)
}
