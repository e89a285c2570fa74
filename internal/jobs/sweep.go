package jobs

import (
	"context"
	"time"

	"pet-vaccinations/internal/platform/dates"
	"pet-vaccinations/internal/platform/logger"
	"pet-vaccinations/internal/platform/taskqueue"
)

const TaskCheckExpiredVaccinations = "check_expired_vaccinations"

// SweepPolicy: el sweep es idempotente, reintentarlo es seguro.
var SweepPolicy = taskqueue.RetryPolicy{
	MaxRetries: 2,
	Backoff:    taskqueue.Schedule(time.Minute, 10*time.Minute),
}

// Sweeper lo cumple *vaccinations.Service.
type Sweeper interface {
	MarkExpiredRecords(ctx context.Context) (int, error)
	Today() time.Time
}

// Sweep es el handler de la tarea diaria de vencimientos.
type Sweep struct {
	svc Sweeper
	log logger.Logger
}

func NewSweep(svc Sweeper, log logger.Logger) *Sweep {
	if log == nil {
		log = logger.Nop()
	}
	return &Sweep{svc: svc, log: log.With(map[string]any{"component": "sweep"})}
}

func (s *Sweep) Register(w *taskqueue.Worker) {
	w.Handle(TaskCheckExpiredVaccinations, SweepPolicy, s.Handle)
}

func (s *Sweep) Handle(ctx context.Context, _ taskqueue.Task) error {
	s.log.Info("starting daily check for expired vaccinations", nil)

	count, err := s.svc.MarkExpiredRecords(ctx)
	if err != nil {
		return err
	}

	if count > 0 {
		s.log.Info("daily vaccination expiration report", map[string]any{
			"date":          dates.Format(s.svc.Today()),
			"total_expired": count,
		})
	}
	return nil
}

// NewSweepTask arma la tarea para la cola low.
func NewSweepTask() taskqueue.Task {
	return taskqueue.NewTask(TaskCheckExpiredVaccinations, taskqueue.QueueLow, "")
}
