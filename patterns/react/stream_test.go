package react

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/reago/core/trace"
)

func TestStream_YieldsEveryStep(t *testing.T) {
	c := newController(t, searchRegistry(t, nil), scripted(gibberish, searchCall, finalParis))

	stream, err := c.Stream(context.Background(), "goal", DefaultConfig())
	require.NoError(t, err)
	assert.Nil(t, stream.Result(), "nothing runs before iteration")

	var got []trace.Step
	for step := range stream.Iter() {
		got = append(got, step)
	}

	res := stream.Result()
	require.NotNil(t, res)
	assert.Equal(t, Success, res.Outcome)
	assert.Equal(t, res.Trace.Steps(), got)
	assert.Equal(t, []trace.Kind{
		trace.KindThought, trace.KindObservation,
		trace.KindThought, trace.KindAction, trace.KindObservation,
		trace.KindThought, trace.KindFinalAnswer,
	}, kinds(got))
}

func TestStream_BreakCancelsEpisode(t *testing.T) {
	c := newController(t, searchRegistry(t, nil), scripted(searchCall, finalParis))

	stream, err := c.Stream(context.Background(), "goal", DefaultConfig())
	require.NoError(t, err)

	seen := 0
	for range stream.Iter() {
		seen++
		break
	}

	res := stream.Result()
	require.NotNil(t, res)
	assert.Equal(t, 1, seen)
	assert.Equal(t, Aborted, res.Outcome)
	assert.Equal(t, ReasonCanceled, res.Reason)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Equal(t, 1, res.Trace.Len())
	requireTraceInvariants(t, res)
}

func TestStream_BreakAfterAction(t *testing.T) {
	c := newController(t, searchRegistry(t, nil), scripted(searchCall, finalParis))

	stream, err := c.Stream(context.Background(), "goal", DefaultConfig())
	require.NoError(t, err)
	for step := range stream.Iter() {
		if step.Kind == trace.KindAction {
			break
		}
	}

	res := stream.Result()
	require.NotNil(t, res)
	assert.Equal(t, Aborted, res.Outcome)
	requireTraceInvariants(t, res)
}

func TestStream_RunsOnce(t *testing.T) {
	c := newController(t, searchRegistry(t, nil), scripted(finalParis))
	stream, err := c.Stream(context.Background(), "goal", DefaultConfig())
	require.NoError(t, err)

	first := stream.Collect()
	require.NotNil(t, first)

	second := 0
	for range stream.Iter() {
		second++
	}
	assert.Zero(t, second)
	assert.Same(t, first, stream.Result())
}

func TestStream_InvalidConfig(t *testing.T) {
	c := newController(t, searchRegistry(t, nil), scripted(finalParis))
	_, err := c.Stream(context.Background(), "goal", Config{MaxCycles: -3})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
