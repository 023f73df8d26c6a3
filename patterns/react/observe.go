package react

import (
	"context"
	"time"

	"github.com/leofalp/reago/core/trace"
	"github.com/leofalp/reago/internal/utils"
	"github.com/leofalp/reago/providers/observability"
	"github.com/leofalp/reago/providers/tool"
)

// observerState is the resolved provider and episode span of one run. A nil
// provider disables every observe* method.
type observerState struct {
	provider observability.Provider
	span     observability.Span
	ctx      context.Context
}

func (e *episode) observeStart(ctx context.Context, id string) context.Context {
	e.obs.provider = e.c.observer
	if e.obs.provider == nil {
		e.obs.provider = observability.ObserverFromContext(ctx)
	}
	if e.obs.provider == nil {
		return ctx
	}

	attrs := []observability.Attribute{
		observability.String(observability.AttrEpisodeID, id),
		observability.String(observability.AttrEpisodeGoal, utils.TruncateString(e.goal, 200)),
		observability.Int(observability.AttrEpisodeMaxCycles, e.cfg.MaxCycles),
		observability.Int(observability.AttrEpisodeMaxMalformed, e.cfg.MaxMalformedRetries),
		observability.StringSlice(observability.AttrToolNames, e.c.registry.Names()),
	}
	ctx, e.obs.span = e.obs.provider.StartSpan(ctx, observability.SpanEpisode, attrs...)
	ctx = observability.ContextWithSpan(ctx, e.obs.span)
	ctx = observability.ContextWithObserver(ctx, e.obs.provider)
	e.obs.ctx = ctx

	e.obs.provider.Info(ctx, "episode started", attrs...)
	return ctx
}

func (e *episode) observeEnd(ctx context.Context, result *EpisodeResult) {
	if e.obs.provider == nil {
		return
	}
	p := e.obs.provider
	duration := result.Duration()
	outcome := result.Outcome.String()

	p.Counter(observability.MetricEpisodeCount).Add(ctx, 1,
		observability.String(observability.AttrEpisodeOutcome, outcome))
	p.Histogram(observability.MetricEpisodeDuration).Record(ctx, duration.Seconds(),
		observability.String(observability.AttrEpisodeOutcome, outcome))

	attrs := []observability.Attribute{
		observability.String(observability.AttrEpisodeOutcome, outcome),
		observability.Int(observability.AttrEpisodeCycles, result.Cycles),
		observability.Int(observability.AttrEpisodeMalformed, result.Malformed),
		observability.Int(observability.AttrEpisodeSteps, e.trace.Len()),
		observability.Duration(observability.AttrDuration, duration),
	}
	if result.Reason != "" {
		attrs = append(attrs, observability.String(observability.AttrEpisodeReason, result.Reason))
	}

	switch result.Outcome {
	case Success:
		p.Info(ctx, "episode succeeded", attrs...)
	case Exhausted:
		p.Warn(ctx, "episode exhausted its cycle budget", attrs...)
	default:
		p.Error(ctx, "episode aborted", append(attrs, observability.Error(result.Err))...)
	}

	if e.obs.span == nil {
		return
	}
	e.obs.span.SetAttributes(attrs...)
	if result.Outcome == Success {
		e.obs.span.SetStatus(observability.StatusOK, "episode succeeded")
	} else {
		if result.Err != nil {
			e.obs.span.RecordError(result.Err)
		}
		e.obs.span.SetStatus(observability.StatusError, "episode "+outcome)
	}
	e.obs.span.End()
}

func (e *episode) observeStep(step trace.Step) {
	if e.obs.provider == nil {
		return
	}
	kind := step.Kind.String()
	e.obs.provider.Counter(observability.MetricStepCount).Add(e.obs.ctx, 1,
		observability.String(observability.AttrStepKind, kind))

	attrs := []observability.Attribute{
		observability.Int(observability.AttrStepIndex, step.Index),
		observability.String(observability.AttrStepKind, kind),
		observability.Int(observability.AttrStepLength, len(step.Text)),
	}
	if e.obs.span != nil {
		e.obs.span.AddEvent(observability.EventStepAppended, attrs...)
	}
	e.obs.provider.Trace(e.obs.ctx, "step appended", attrs...)
}

func (e *episode) observeMalformed(ctx context.Context, reason string) {
	if e.obs.provider == nil {
		return
	}
	attrs := []observability.Attribute{
		observability.String(observability.AttrParseReason, reason),
		observability.Int(observability.AttrEpisodeMalformed, e.malformedRun),
	}
	e.obs.provider.Counter(observability.MetricMalformedOutputs).Add(ctx, 1,
		observability.String(observability.AttrParseReason, reason))
	if e.obs.span != nil {
		e.obs.span.AddEvent(observability.EventMalformedOutput, attrs...)
	}
	e.obs.provider.Warn(ctx, "unparseable reasoning output", attrs...)
}

func (e *episode) startReasoningSpan(ctx context.Context) (context.Context, observability.Span) {
	if e.obs.provider == nil {
		return ctx, nil
	}
	ctx, span := e.obs.provider.StartSpan(ctx, observability.SpanReasoning,
		observability.Int(observability.AttrStepIndex, e.trace.Len()),
		observability.Duration(observability.AttrReasoningTimeout, e.cfg.ReasoningTimeout),
	)
	return observability.ContextWithSpan(ctx, span), span
}

func (e *episode) observeReasoning(ctx context.Context, span observability.Span, thought string, duration time.Duration, err error) {
	if e.obs.provider == nil {
		return
	}
	p := e.obs.provider
	p.Histogram(observability.MetricReasoningDuration).Record(ctx, duration.Seconds())

	if err != nil {
		p.Error(ctx, "reasoning failed", observability.Error(err), observability.Duration(observability.AttrDuration, duration))
		if span != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, "reasoning failed")
			span.End()
		}
		return
	}

	p.Debug(ctx, "thought received",
		observability.String(observability.AttrReasoningOutput, utils.TruncateString(thought, 200)),
		observability.Duration(observability.AttrDuration, duration),
	)
	if span != nil {
		span.SetStatus(observability.StatusOK, "")
		span.End()
	}
}

func (e *episode) startToolSpan(ctx context.Context, name string) (context.Context, observability.Span) {
	if e.obs.provider == nil {
		return ctx, nil
	}
	ctx, span := e.obs.provider.StartSpan(ctx, observability.SpanToolExecution,
		observability.String(observability.AttrToolName, name))
	return observability.ContextWithSpan(ctx, span), span
}

func (e *episode) observeTool(ctx context.Context, span observability.Span, name string, duration time.Duration, err error) {
	if e.obs.provider == nil {
		return
	}
	p := e.obs.provider
	toolAttr := observability.String(observability.AttrToolName, name)
	// Metric attributes only carry registered names; the model picks the rest.
	labelAttr := toolAttr
	if _, lerr := e.c.registry.Lookup(name); lerr != nil {
		labelAttr = observability.String(observability.AttrToolName, observability.ToolNameUnregistered)
	}
	p.Counter(observability.MetricToolCalls).Add(ctx, 1, labelAttr)
	p.Histogram(observability.MetricToolDuration).Record(ctx, duration.Seconds(), labelAttr)

	if err != nil {
		kind := string(tool.ErrorKind(err))
		p.Counter(observability.MetricToolErrors).Add(ctx, 1, labelAttr,
			observability.String(observability.AttrToolErrorKind, kind))
		p.Warn(ctx, "tool call failed", toolAttr,
			observability.String(observability.AttrToolErrorKind, kind),
			observability.Error(err),
		)
		if span != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, kind)
			span.End()
		}
		return
	}

	p.Info(ctx, "tool call completed", toolAttr, observability.Duration(observability.AttrToolDuration, duration))
	if span != nil {
		span.SetStatus(observability.StatusOK, "")
		span.End()
	}
}
