package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-vaccinations/internal/platform/taskqueue"
)

type testSweeper struct {
	calls atomic.Int32
	count int
	err   error
}

func (s *testSweeper) MarkExpiredRecords(context.Context) (int, error) {
	s.calls.Add(1)
	return s.count, s.err
}

func (s *testSweeper) Today() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }

func TestSweep_Handle(t *testing.T) {
	sw := &testSweeper{count: 2}
	require.NoError(t, NewSweep(sw, nil).Handle(context.Background(), NewSweepTask()))
	assert.Equal(t, int32(1), sw.calls.Load())

	sw = &testSweeper{err: errors.New("db down")}
	assert.Error(t, NewSweep(sw, nil).Handle(context.Background(), NewSweepTask()))
}

func TestNewSweepTask_LowQueue(t *testing.T) {
	task := NewSweepTask()
	assert.Equal(t, taskqueue.QueueLow, task.Queue)
	assert.Equal(t, TaskCheckExpiredVaccinations, task.Name)
}

func TestNextRun(t *testing.T) {
	loc := time.FixedZone("bogota", -5*3600)

	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "later today",
			now:  time.Date(2025, 6, 15, 6, 0, 0, 0, loc),
			want: time.Date(2025, 6, 15, 9, 0, 0, 0, loc),
		},
		{
			name: "exactly at time rolls to tomorrow",
			now:  time.Date(2025, 6, 15, 9, 0, 0, 0, loc),
			want: time.Date(2025, 6, 16, 9, 0, 0, 0, loc),
		},
		{
			name: "after time rolls to tomorrow",
			now:  time.Date(2025, 6, 30, 22, 0, 0, 0, loc),
			want: time.Date(2025, 7, 1, 9, 0, 0, 0, loc),
		},
		{
			name: "now expressed in UTC",
			now:  time.Date(2025, 6, 15, 13, 0, 0, 0, time.UTC), // 08:00 en loc
			want: time.Date(2025, 6, 15, 9, 0, 0, 0, loc),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextRun(tc.now, 9, 0, loc)
			assert.True(t, got.Equal(tc.want), "got %v want %v", got, tc.want)
		})
	}
}

func TestScheduler_TriggerAndStop(t *testing.T) {
	b := taskqueue.NewMemoryBroker()
	s := NewScheduler(b, 9, 0, time.UTC, nil)

	s.Trigger(context.Background())
	got, ok, err := b.Dequeue(context.Background(), "test", []string{taskqueue.QueueLow}, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, TaskCheckExpiredVaccinations, got.Name)

	s.Start(context.Background())
	s.Stop()
	assert.Equal(t, 0, b.Len())
}

func TestSweep_ThroughWorker(t *testing.T) {
	b := taskqueue.NewMemoryBroker()
	w := taskqueue.NewWorker(b, taskqueue.WorkerOptions{Concurrency: 1, PollWait: 10 * time.Millisecond})
	sw := &testSweeper{count: 1}
	NewSweep(sw, nil).Register(w)

	require.NoError(t, b.Enqueue(context.Background(), NewSweepTask()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return sw.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
	assert.Equal(t, 0, b.Len())
}
