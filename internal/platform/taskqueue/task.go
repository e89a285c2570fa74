package taskqueue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	QueueDefault = "default"
	QueueLow     = "low"
)

// Orden de consumo: default antes que low.
var Queues = []string{QueueDefault, QueueLow}

// Task es la unidad de trabajo. Payload es un string (p.ej. un id), nunca la entidad completa.
type Task struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Queue   string    `json:"queue"`
	Payload string    `json:"payload"`
	Attempt int       `json:"attempt"`
	RunAt   time.Time `json:"run_at"`

	// raw es la forma serializada con la que el broker la reservó (Ack la necesita).
	raw string
}

func NewTask(name, queue, payload string) Task {
	if queue == "" {
		queue = QueueDefault
	}
	return Task{
		ID:      uuid.NewString(),
		Name:    name,
		Queue:   queue,
		Payload: payload,
	}
}

// Enqueuer es lo que necesitan los productores de tareas.
type Enqueuer interface {
	Enqueue(ctx context.Context, t Task) error
}

// Broker entrega tareas at-least-once: Dequeue deja la tarea reservada a nombre de consumer
// hasta que Ack la libera. Si el consumer muere sin Ack, RecoverOrphans la devuelve a su cola.
type Broker interface {
	Enqueuer

	// Dequeue bloquea hasta wait. ok=false si no hubo tarea lista.
	Dequeue(ctx context.Context, consumer string, queues []string, wait time.Duration) (t Task, ok bool, err error)
	// Ack libera la reserva: la tarea terminó, se abandonó o ya se re-encoló.
	Ack(ctx context.Context, consumer string, t Task) error
	// RecoverOrphans re-encola las reservas de consumers sin heartbeat vigente.
	RecoverOrphans(ctx context.Context) (int, error)

	Heartbeat(ctx context.Context, workerID string, ttl time.Duration) error
	LiveWorkers(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

var (
	ErrUnknownQueue  = errors.New("unknown queue")
	ErrMalformedTask = errors.New("malformed task")
)

func validQueue(q string) bool {
	return q == QueueDefault || q == QueueLow
}
