package reasoning

import (
	"context"

	"github.com/leofalp/reago/core/trace"
	"github.com/leofalp/reago/providers/tool"
)

// Request is everything an adapter may look at to produce the next thought.
type Request struct {
	Goal  string
	Trace trace.View
	Tools []tool.Description
}

// Adapter produces the next thought of an episode.
type Adapter interface {
	NextThought(ctx context.Context, req Request) (string, error)
}

// AdapterFunc lets an ordinary function act as an Adapter.
type AdapterFunc func(ctx context.Context, req Request) (string, error)

// NextThought calls f(ctx, req).
func (f AdapterFunc) NextThought(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
