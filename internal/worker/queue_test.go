package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRunsTasks(t *testing.T) {
	q := NewQueue(8, 2, time.Second)

	var ran atomic.Int32
	for range 5 {
		require.True(t, q.Submit("count", func(context.Context) { ran.Add(1) }))
	}
	q.Close()

	assert.EqualValues(t, 5, ran.Load())
	assert.Zero(t, q.Dropped())
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(1, 1, 0)

	release := make(chan struct{})
	started := make(chan struct{})
	require.True(t, q.Submit("block", func(context.Context) {
		close(started)
		<-release
	}))
	<-started

	// Worker is busy: one task fits in the buffer, the next is dropped
	require.True(t, q.Submit("buffered", func(context.Context) {}))
	assert.False(t, q.Submit("overflow", func(context.Context) {}))
	assert.EqualValues(t, 1, q.Dropped())

	close(release)
	q.Close()
}

func TestQueueRecoversPanics(t *testing.T) {
	q := NewQueue(4, 1, 0)

	var after atomic.Bool
	require.True(t, q.Submit("panic", func(context.Context) { panic("boom") }))
	require.True(t, q.Submit("after", func(context.Context) { after.Store(true) }))
	q.Close()

	assert.True(t, after.Load())
}

func TestQueueTaskTimeout(t *testing.T) {
	q := NewQueue(1, 1, 20*time.Millisecond)

	var deadlineHit atomic.Bool
	require.True(t, q.Submit("slow", func(ctx context.Context) {
		select {
		case <-ctx.Done():
			deadlineHit.Store(true)
		case <-time.After(5 * time.Second):
		}
	}))
	q.Close()

	assert.True(t, deadlineHit.Load())
}

func TestQueueRejectsAfterClose(t *testing.T) {
	q := NewQueue(1, 1, 0)
	q.Close()
	q.Close()

	assert.False(t, q.Submit("late", func(context.Context) {}))
	assert.EqualValues(t, 1, q.Dropped())
}
