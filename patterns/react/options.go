package react

import (
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/reago/core/action"
	"github.com/leofalp/reago/providers/observability"
)

// Parser classifies thoughts. *action.Parser implements it.
type Parser interface {
	Parse(text string) action.Intent
}

// Option configures a Controller.
type Option func(*Controller)

// WithObserver enables spans, metrics and logs. Without it the controller
// falls back to an observer carried by the episode context, if any.
func WithObserver(provider observability.Provider) Option {
	return func(c *Controller) {
		c.observer = provider
	}
}

// WithParser replaces the default action parser, e.g. one built with custom
// markers.
func WithParser(p Parser) Option {
	return func(c *Controller) {
		if p != nil {
			c.parser = p
		}
	}
}

// WithClock sets the time source for step timestamps and episode bounds.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator sets how episode IDs are minted. The default is a random
// UUID.
func WithIDGenerator(gen func() string) Option {
	return func(c *Controller) {
		if gen != nil {
			c.newID = gen
		}
	}
}

func defaultController() *Controller {
	return &Controller{
		parser: action.NewParser(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}
