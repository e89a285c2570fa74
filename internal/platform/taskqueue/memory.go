package taskqueue

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryBroker es el broker de un solo proceso (dev/tests). No sobrevive reinicios.
type MemoryBroker struct {
	mu        sync.Mutex
	queues    map[string][]Task
	scheduled []Task
	inflight  map[string]map[string]Task // consumer -> task id -> task
	workers   map[string]time.Time
	signal    chan struct{}

	now func() time.Time
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		queues:   map[string][]Task{},
		inflight: map[string]map[string]Task{},
		workers:  map[string]time.Time{},
		signal:   make(chan struct{}, 1),
		now:      time.Now,
	}
}

func (b *MemoryBroker) Enqueue(_ context.Context, t Task) error {
	if !validQueue(t.Queue) {
		return fmt.Errorf("%w: %q", ErrUnknownQueue, t.Queue)
	}

	b.mu.Lock()
	if t.RunAt.After(b.now()) {
		b.scheduled = append(b.scheduled, t)
		sort.SliceStable(b.scheduled, func(i, j int) bool {
			return b.scheduled[i].RunAt.Before(b.scheduled[j].RunAt)
		})
	} else {
		b.queues[t.Queue] = append(b.queues[t.Queue], t)
	}
	b.mu.Unlock()

	b.wake()
	return nil
}

func (b *MemoryBroker) Dequeue(ctx context.Context, consumer string, queues []string, wait time.Duration) (Task, bool, error) {
	deadline := b.now().Add(wait)

	for {
		b.mu.Lock()
		b.promoteLocked()
		t, ok := b.popLocked(queues)
		if ok {
			b.reserveLocked(consumer, t)
		}
		next := b.nextDueLocked()
		b.mu.Unlock()

		if ok {
			return t, true, nil
		}

		remaining := deadline.Sub(b.now())
		if remaining <= 0 {
			return Task{}, false, nil
		}
		if !next.IsZero() {
			if d := next.Sub(b.now()); d < remaining {
				remaining = d
			}
		}

		timer := time.NewTimer(remaining)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Task{}, false, ctx.Err()
		case <-b.signal:
			timer.Stop()
		case <-timer.C:
		}
	}
}

func (b *MemoryBroker) Ack(_ context.Context, consumer string, t Task) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if held := b.inflight[consumer]; held != nil {
		delete(held, t.ID)
		if len(held) == 0 {
			delete(b.inflight, consumer)
		}
	}
	return nil
}

func (b *MemoryBroker) RecoverOrphans(context.Context) (int, error) {
	b.mu.Lock()
	now := b.now()
	n := 0
	for consumer, held := range b.inflight {
		if until, ok := b.workers[consumer]; ok && until.After(now) {
			continue
		}
		for _, t := range held {
			b.queues[t.Queue] = append([]Task{t}, b.queues[t.Queue]...)
			n++
		}
		delete(b.inflight, consumer)
	}
	b.mu.Unlock()

	if n > 0 {
		b.wake()
	}
	return n, nil
}

func (b *MemoryBroker) Heartbeat(_ context.Context, workerID string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.workers[workerID] = b.now().Add(ttl)
	return nil
}

func (b *MemoryBroker) LiveWorkers(_ context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	n := 0
	for id, until := range b.workers {
		if until.After(now) {
			n++
			continue
		}
		delete(b.workers, id)
	}
	return n, nil
}

func (b *MemoryBroker) Ping(context.Context) error { return nil }

// Len cuenta tareas listas + programadas (tests).
func (b *MemoryBroker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.scheduled)
	for _, q := range b.queues {
		n += len(q)
	}
	return n
}

// InFlight cuenta tareas reservadas sin Ack (tests).
func (b *MemoryBroker) InFlight() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, held := range b.inflight {
		n += len(held)
	}
	return n
}

// Scheduled devuelve copia de las tareas diferidas (tests).
func (b *MemoryBroker) Scheduled() []Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Task(nil), b.scheduled...)
}

func (b *MemoryBroker) promoteLocked() {
	now := b.now()
	i := 0
	for ; i < len(b.scheduled); i++ {
		t := b.scheduled[i]
		if t.RunAt.After(now) {
			break
		}
		b.queues[t.Queue] = append(b.queues[t.Queue], t)
	}
	b.scheduled = b.scheduled[i:]
}

func (b *MemoryBroker) popLocked(queues []string) (Task, bool) {
	for _, q := range queues {
		items := b.queues[q]
		if len(items) == 0 {
			continue
		}
		t := items[0]
		b.queues[q] = items[1:]
		return t, true
	}
	return Task{}, false
}

func (b *MemoryBroker) reserveLocked(consumer string, t Task) {
	held := b.inflight[consumer]
	if held == nil {
		held = map[string]Task{}
		b.inflight[consumer] = held
	}
	held[t.ID] = t
}

func (b *MemoryBroker) nextDueLocked() time.Time {
	if len(b.scheduled) == 0 {
		return time.Time{}
	}
	return b.scheduled[0].RunAt
}

func (b *MemoryBroker) wake() {
	select {
	case b.signal <- struct{}{}:
	default:
	}
}
