package taskqueue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBroker_PriorityDefaultBeforeLow(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBroker()

	require.NoError(t, b.Enqueue(ctx, NewTask("sweep", QueueLow, "")))
	require.NoError(t, b.Enqueue(ctx, NewTask("notify", QueueDefault, "rec-1")))

	first, ok, err := b.Dequeue(ctx, "w1", Queues, 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "notify", first.Name)

	second, ok, err := b.Dequeue(ctx, "w1", Queues, 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "sweep", second.Name)
}

func TestMemoryBroker_EmptyTimesOut(t *testing.T) {
	b := NewMemoryBroker()
	_, ok, err := b.Dequeue(context.Background(), "w1", Queues, 5*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryBroker_DelayedTaskPromotedWhenDue(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBroker()
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	task := NewTask("notify", QueueDefault, "rec-1")
	task.RunAt = now.Add(time.Minute)
	require.NoError(t, b.Enqueue(ctx, task))
	require.Len(t, b.Scheduled(), 1)

	_, ok, err := b.Dequeue(ctx, "w1", Queues, 0)
	require.NoError(t, err)
	assert.False(t, ok, "not due yet")

	now = now.Add(time.Minute)
	got, ok, err := b.Dequeue(ctx, "w1", Queues, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, 0, b.Len())
}

func TestMemoryBroker_WakesBlockedDequeue(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBroker()

	done := make(chan Task, 1)
	go func() {
		got, ok, _ := b.Dequeue(ctx, "w1", Queues, 2*time.Second)
		if ok {
			done <- got
		}
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, b.Enqueue(ctx, NewTask("notify", QueueDefault, "x")))

	select {
	case got := <-done:
		assert.Equal(t, "notify", got.Name)
	case <-time.After(time.Second):
		t.Fatal("dequeue was not woken")
	}
}

func TestMemoryBroker_CancelledContext(t *testing.T) {
	b := NewMemoryBroker()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok, err := b.Dequeue(ctx, "w1", Queues, time.Second)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryBroker_UnknownQueue(t *testing.T) {
	err := NewMemoryBroker().Enqueue(context.Background(), Task{Name: "x", Queue: "critical"})
	assert.ErrorIs(t, err, ErrUnknownQueue)
}

func TestMemoryBroker_Heartbeats(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBroker()
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	require.NoError(t, b.Heartbeat(ctx, "w1", 30*time.Second))
	require.NoError(t, b.Heartbeat(ctx, "w2", 5*time.Second))

	n, err := b.LiveWorkers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	now = now.Add(10 * time.Second)
	n, err = b.LiveWorkers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryBroker_UnackedTaskRecoveredWhenConsumerDies(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBroker()
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	task := NewTask("notify", QueueDefault, "rec-1")
	require.NoError(t, b.Enqueue(ctx, task))
	require.NoError(t, b.Heartbeat(ctx, "w1", 30*time.Second))

	got, ok, err := b.Dequeue(ctx, "w1", Queues, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, b.InFlight())

	n, err := b.RecoverOrphans(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "w1 is alive")

	// w1 muere sin Ack.
	now = now.Add(time.Minute)
	n, err = b.RecoverOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, b.InFlight())

	again, ok, err := b.Dequeue(ctx, "w2", Queues, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, got.ID, again.ID)

	require.NoError(t, b.Ack(ctx, "w2", again))
	assert.Equal(t, 0, b.InFlight())
}
