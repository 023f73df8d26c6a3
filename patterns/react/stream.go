package react

import (
	"context"
	"iter"
	"sync"

	"github.com/leofalp/reago/core/trace"
)

// EpisodeStream runs an episode lazily and yields each step as it is
// committed to the trace.
//
// The episode starts when Iter is ranged over and runs at most once.
// Breaking out of the range cancels the episode, which then ends Aborted
// with reason "canceled".
type EpisodeStream struct {
	iterator iter.Seq[trace.Step]

	mu     sync.Mutex
	result *EpisodeResult
}

// Iter returns the step iterator.
//
//	stream, _ := controller.Stream(ctx, goal, react.DefaultConfig())
//	for step := range stream.Iter() {
//	    fmt.Println(step.Index, step.Kind)
//	}
//	result := stream.Result()
func (s *EpisodeStream) Iter() iter.Seq[trace.Step] {
	return s.iterator
}

// Result returns the episode result once the iterator has finished, or nil
// before that.
func (s *EpisodeStream) Result() *EpisodeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Collect drains the stream and returns the result.
func (s *EpisodeStream) Collect() *EpisodeResult {
	for range s.iterator {
	}
	return s.Result()
}

// Stream is the streaming form of RunEpisode. Config errors are returned
// immediately; nothing runs until the stream is iterated.
func (c *Controller) Stream(ctx context.Context, goal string, cfg Config) (*EpisodeStream, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	s := &EpisodeStream{}
	var once sync.Once
	s.iterator = func(yield func(trace.Step) bool) {
		once.Do(func() {
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			stopped := false
			emit := func(step trace.Step) {
				if stopped {
					return
				}
				if !yield(step) {
					stopped = true
					cancel()
				}
			}

			result := c.newEpisode(goal, cfg, emit).run(ctx)
			s.mu.Lock()
			s.result = result
			s.mu.Unlock()
		})
	}
	return s, nil
}
