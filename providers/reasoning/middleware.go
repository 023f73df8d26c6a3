package reasoning

import (
	"context"
	"log/slog"
	"time"

	"github.com/leofalp/reago/internal/utils"
)

// Middleware wraps an Adapter.
type Middleware func(next Adapter) Adapter

// Chain wraps base with mws. The first middleware is the outermost, i.e. the
// first to see a request.
func Chain(base Adapter, mws ...Middleware) Adapter {
	a := base
	for i := len(mws) - 1; i >= 0; i-- {
		a = mws[i](a)
	}
	return a
}

// WithTimeout derives a context with the given deadline for every call. A
// shorter deadline already on the caller's context still wins.
func WithTimeout(timeout time.Duration) Middleware {
	return func(next Adapter) Adapter {
		return AdapterFunc(func(ctx context.Context, req Request) (string, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next.NextThought(ctx, req)
		})
	}
}

// LogLevel controls how much detail WithLogging emits per call.
type LogLevel int

const (
	// LogLevelMinimal logs the duration and the outcome.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds the trace length and the number of tools.
	LogLevelStandard

	// LogLevelVerbose adds the goal and the returned thought, truncated.
	// Thoughts may echo tool output; keep this to local debugging.
	LogLevelVerbose
)

const truncateLen = 500

// WithLogging logs every adapter call with slog. A nil logger means
// slog.Default().
func WithLogging(logger *slog.Logger, level LogLevel) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Adapter) Adapter {
		return AdapterFunc(func(ctx context.Context, req Request) (string, error) {
			attrs := []any{}
			if level >= LogLevelStandard {
				attrs = append(attrs,
					slog.Int("trace_steps", req.Trace.Len()),
					slog.Int("tools", len(req.Tools)),
				)
			}
			if level >= LogLevelVerbose {
				attrs = append(attrs, slog.String("goal", utils.TruncateString(req.Goal, truncateLen)))
			}
			logger.DebugContext(ctx, "reasoning request", attrs...)

			start := time.Now()
			thought, err := next.NextThought(ctx, req)
			elapsed := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "reasoning failed",
					slog.Duration("duration", elapsed),
					slog.String("error", err.Error()),
				)
				return "", err
			}

			done := []any{slog.Duration("duration", elapsed)}
			if level >= LogLevelStandard {
				done = append(done, slog.Int("thought_length", len(thought)))
			}
			if level >= LogLevelVerbose {
				done = append(done, slog.String("thought", utils.TruncateString(thought, truncateLen)))
			}
			logger.InfoContext(ctx, "reasoning completed", done...)
			return thought, nil
		})
	}
}
