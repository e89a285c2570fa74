package jobs

import (
	"context"
	"sync"
	"time"

	"pet-vaccinations/internal/platform/logger"
	"pet-vaccinations/internal/platform/taskqueue"
)

// Scheduler encola el sweep una vez por día a la hora configurada.
type Scheduler struct {
	mu     sync.RWMutex
	queue  taskqueue.Enqueuer
	log    logger.Logger
	hour   int
	minute int
	loc    *time.Location
	now    func() time.Time
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(q taskqueue.Enqueuer, hour, minute int, loc *time.Location, log logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		queue:  q,
		log:    log.With(map[string]any{"component": "scheduler"}),
		hour:   hour,
		minute: minute,
		loc:    loc,
		now:    time.Now,
	}
}

// Start lanza el loop en background. Stop lo detiene y espera.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		for {
			next := NextRun(s.now(), s.hour, s.minute, s.loc)
			s.log.Info("sweep scheduled", map[string]any{"next_run": next.Format(time.RFC3339)})

			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				s.Trigger(ctx)
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Trigger encola el sweep ahora.
func (s *Scheduler) Trigger(ctx context.Context) {
	t := NewSweepTask()
	if err := s.queue.Enqueue(ctx, t); err != nil {
		s.log.Error("enqueue sweep failed", map[string]any{"err": err.Error()})
		return
	}
	s.log.Info("sweep enqueued", map[string]any{"task_id": t.ID})
}

// NextRun es la próxima ocurrencia estricta de hour:minute en loc, posterior a now.
func NextRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next
}
