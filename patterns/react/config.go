package react

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultMaxCycles           = 10
	DefaultMaxMalformedRetries = 3
)

// NoMalformedRetries as MaxMalformedRetries aborts the episode on the first
// unparseable thought. A literal zero selects DefaultMaxMalformedRetries.
const NoMalformedRetries = -1

// ErrInvalidConfig is wrapped by configuration errors returned before an
// episode starts.
var ErrInvalidConfig = errors.New("invalid episode config")

// Config bounds one episode. Zero budgets take their defaults; zero timeouts
// mean no deadline beyond the caller's context.
type Config struct {
	// MaxCycles is the number of Action/Observation pairs after which an
	// episode without a final answer ends Exhausted.
	MaxCycles int

	// MaxMalformedRetries is how many consecutive unparseable thoughts are
	// answered with an error observation before the episode is aborted.
	// Use NoMalformedRetries for none.
	MaxMalformedRetries int

	// ReasoningTimeout bounds each adapter call. Expiry is fatal.
	ReasoningTimeout time.Duration

	// ToolTimeout bounds each tool call. Expiry becomes an observation.
	ToolTimeout time.Duration
}

// DefaultConfig returns 10 cycles, 3 malformed retries and no timeouts.
func DefaultConfig() Config {
	return Config{
		MaxCycles:           DefaultMaxCycles,
		MaxMalformedRetries: DefaultMaxMalformedRetries,
	}
}

func (c Config) validate() error {
	if c.MaxCycles < 0 {
		return fmt.Errorf("%w: MaxCycles must not be negative, got %d", ErrInvalidConfig, c.MaxCycles)
	}
	if c.MaxMalformedRetries < NoMalformedRetries {
		return fmt.Errorf("%w: MaxMalformedRetries must not be negative, got %d", ErrInvalidConfig, c.MaxMalformedRetries)
	}
	if c.ReasoningTimeout < 0 {
		return fmt.Errorf("%w: ReasoningTimeout must not be negative, got %s", ErrInvalidConfig, c.ReasoningTimeout)
	}
	if c.ToolTimeout < 0 {
		return fmt.Errorf("%w: ToolTimeout must not be negative, got %s", ErrInvalidConfig, c.ToolTimeout)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.MaxCycles == 0 {
		c.MaxCycles = DefaultMaxCycles
	}
	switch c.MaxMalformedRetries {
	case 0:
		c.MaxMalformedRetries = DefaultMaxMalformedRetries
	case NoMalformedRetries:
		c.MaxMalformedRetries = 0
	}
	return c
}
