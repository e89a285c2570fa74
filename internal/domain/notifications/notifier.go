package notifications

import (
	"context"

	"pet-vaccinations/internal/platform/taskqueue"
)

// Notifier agenda tareas de notificación (implementa vaccinations.ExpirationNotifier).
type Notifier struct {
	queue taskqueue.Enqueuer
}

func NewNotifier(q taskqueue.Enqueuer) *Notifier {
	return &Notifier{queue: q}
}

func (n *Notifier) NotifyExpired(ctx context.Context, recordID string) error {
	return n.queue.Enqueue(ctx, taskqueue.NewTask(TaskVaccinationExpiration, taskqueue.QueueDefault, recordID))
}
