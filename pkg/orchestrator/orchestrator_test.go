package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modernreader/orchestrator/pkg/emotion"
	"github.com/modernreader/orchestrator/pkg/mapping"
	"github.com/modernreader/orchestrator/pkg/memory"
)

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	mem, err := memory.New(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { mem.Close() })

	return New(Config{}, emotion.New(nil), mapping.New(), mem, nil, nil, nil)
}

func TestPlay_BuildsPlanWithAnchoredEvents(t *testing.T) {
	o := newTestOrchestrator(t)
	plan, err := o.Play(context.Background(), "s1", "u1", "今天天氣真好！我很開心。這是第二段。", "")
	require.NoError(t, err)

	assert.NotEmpty(t, plan.Segments)
	assert.Len(t, plan.HapticEvents, len(plan.Segments))
	assert.Len(t, plan.ScentEvents, 1)
	assert.Len(t, plan.AREvents, 1)
	assert.Greater(t, plan.DurationTotal, 0.0)
}

func TestPause_IsIdempotent(t *testing.T) {
	o := newTestOrchestrator(t)
	_, err := o.Play(context.Background(), "s1", "u1", "hello world", "")
	require.NoError(t, err)

	_, err = o.Pause("s1")
	require.NoError(t, err)
	s, err := o.Pause("s1")
	require.NoError(t, err)
	assert.False(t, s.Playing)
}

func TestSeek_InvalidIndexLeavesStateUnchanged(t *testing.T) {
	o := newTestOrchestrator(t)
	_, err := o.Play(context.Background(), "s1", "u1", "one. two. three.", "")
	require.NoError(t, err)

	_, err = o.Seek("s1", 0)
	require.NoError(t, err)

	before, _ := o.Summary("s1")
	_, err = o.Seek("s1", 9999)
	require.Error(t, err)
	after, _ := o.Summary("s1")
	assert.Equal(t, before.CurrentIndex, after.CurrentIndex)
}

func TestSummary_ReportsCountsAndHighlights(t *testing.T) {
	o := newTestOrchestrator(t)
	_, err := o.Play(context.Background(), "s1", "u1", `She said "hello there!" and left.`, "")
	require.NoError(t, err)

	sum, err := o.Summary("s1")
	require.NoError(t, err)
	assert.Equal(t, 0, sum.CurrentIndex)
	assert.True(t, sum.TotalSegments > 0)
}

func TestPlay_SecondCallBumpsPlanGeneration(t *testing.T) {
	o := newTestOrchestrator(t)
	p1, err := o.Play(context.Background(), "s1", "u1", "first pass text", "")
	require.NoError(t, err)
	p2, err := o.Play(context.Background(), "s1", "u1", "second pass text", "")
	require.NoError(t, err)

	assert.Greater(t, p2.PlanGeneration, p1.PlanGeneration)
}
