package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FlushRunsNestedWork(t *testing.T) {
	var q Queue
	var order []string
	q.Defer(func() {
		order = append(order, "a")
		q.Defer(func() { order = append(order, "c") })
	})
	q.Defer(func() { order = append(order, "b") })

	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 3, q.Flush())
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Zero(t, q.Len())
}

func TestLoop_DeferredWorkRunsBeforeNextTask(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewLoop(4)
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	var order []string
	require.NoError(t, l.Post(ctx, func() {
		order = append(order, "task1")
		l.Defer(func() { order = append(order, "deferred") })
	}))
	require.NoError(t, l.Do(ctx, func() {
		order = append(order, "task2")
	}))

	assert.Equal(t, []string{"task1", "deferred", "task2"}, order)

	cancel()
	require.NoError(t, <-done)

	err := l.Post(context.Background(), func() {})
	assert.ErrorIs(t, err, ErrLoopStopped)
}

func TestLoop_DoHonoursContext(t *testing.T) {
	l := NewLoop(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Do(ctx, func() {})
	assert.ErrorIs(t, err, context.Canceled)
}
