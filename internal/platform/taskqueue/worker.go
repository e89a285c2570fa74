package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pet-vaccinations/internal/platform/logger"
	"pet-vaccinations/internal/platform/metrics"
)

const (
	DefaultConcurrency  = 4
	DefaultPollWait     = 2 * time.Second
	DefaultHeartbeatTTL = 30 * time.Second

	brokerOpTimeout = 5 * time.Second
)

type HandlerFunc func(ctx context.Context, t Task) error

type registration struct {
	handler HandlerFunc
	policy  RetryPolicy
}

type WorkerOptions struct {
	Concurrency  int
	Queues       []string
	PollWait     time.Duration
	HeartbeatTTL time.Duration

	Logger  logger.Logger
	Metrics *metrics.Metrics
}

// Worker consume tareas con N goroutines. Un fallo o panic en una tarea no afecta a las demás.
type Worker struct {
	id     string
	broker Broker
	opts   WorkerOptions
	log    logger.Logger

	mu       sync.RWMutex
	handlers map[string]registration

	now func() time.Time
}

func NewWorker(b Broker, opts WorkerOptions) *Worker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if len(opts.Queues) == 0 {
		opts.Queues = Queues
	}
	if opts.PollWait <= 0 {
		opts.PollWait = DefaultPollWait
	}
	if opts.HeartbeatTTL <= 0 {
		opts.HeartbeatTTL = DefaultHeartbeatTTL
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	id := uuid.NewString()
	return &Worker{
		id:       id,
		broker:   b,
		opts:     opts,
		log:      opts.Logger.With(map[string]any{"component": "worker", "worker_id": id}),
		handlers: map[string]registration{},
		now:      time.Now,
	}
}

func (w *Worker) ID() string { return w.id }

// Handle registra el handler de una tarea por nombre.
func (w *Worker) Handle(name string, policy RetryPolicy, h HandlerFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[name] = registration{handler: h, policy: policy}
}

// Run bloquea hasta que ctx se cancela. Retorna nil en shutdown normal.
func (w *Worker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		w.heartbeatLoop(ctx)
		return nil
	})
	g.Go(func() error {
		w.recoverLoop(ctx)
		return nil
	})

	for i := 0; i < w.opts.Concurrency; i++ {
		g.Go(func() error {
			for ctx.Err() == nil {
				w.processOne(ctx)
			}
			return nil
		})
	}

	w.log.Info("worker started", map[string]any{
		"concurrency": w.opts.Concurrency,
		"queues":      w.opts.Queues,
	})
	err := g.Wait()
	w.log.Info("worker stopped", nil)
	return err
}

func (w *Worker) heartbeatLoop(ctx context.Context) {
	beat := func() {
		if err := w.broker.Heartbeat(ctx, w.id, w.opts.HeartbeatTTL); err != nil && ctx.Err() == nil {
			w.log.Warn("worker heartbeat failed", map[string]any{"err": err.Error()})
		}
	}

	beat()
	ticker := time.NewTicker(w.opts.HeartbeatTTL / 3)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			beat()
		}
	}
}

// recoverLoop re-encola las reservas de workers caídos (heartbeat expirado).
func (w *Worker) recoverLoop(ctx context.Context) {
	ticker := time.NewTicker(w.opts.HeartbeatTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.recoverOrphans(ctx)
		}
	}
}

func (w *Worker) recoverOrphans(ctx context.Context) {
	n, err := w.broker.RecoverOrphans(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Warn("orphan recovery failed", map[string]any{"err": err.Error()})
		}
		return
	}
	if n > 0 {
		w.log.Warn("orphaned tasks requeued", map[string]any{"count": n})
	}
}

// processOne toma a lo sumo una tarea y la ejecuta. false si no había nada.
func (w *Worker) processOne(ctx context.Context) bool {
	t, ok, err := w.broker.Dequeue(ctx, w.id, w.opts.Queues, w.opts.PollWait)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error("dequeue failed", map[string]any{"err": err.Error()})
			if !errors.Is(err, ErrMalformedTask) {
				sleep(ctx, time.Second)
			}
		}
		return false
	}
	if !ok {
		return false
	}

	w.execute(ctx, t)
	return true
}

// execute corre el handler y libera la reserva salvo que no se haya podido re-encolar el reintento:
// en ese caso queda reservada y RecoverOrphans la devuelve cuando este worker deje de latir.
func (w *Worker) execute(ctx context.Context, t Task) {
	lease := t
	fields := map[string]any{"task": t.Name, "task_id": t.ID, "queue": t.Queue, "attempt": t.Attempt}
	if w.process(ctx, t, fields) {
		w.ack(ctx, lease, fields)
	}
}

func (w *Worker) ack(ctx context.Context, t Task, fields map[string]any) {
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), brokerOpTimeout)
	defer cancel()
	if err := w.broker.Ack(actx, w.id, t); err != nil {
		fields["ack_err"] = err.Error()
		w.log.Error("task ack failed", fields)
	}
}

// process devuelve true cuando la tarea puede liberarse.
func (w *Worker) process(ctx context.Context, t Task, fields map[string]any) bool {
	w.mu.RLock()
	reg, ok := w.handlers[t.Name]
	w.mu.RUnlock()

	if !ok {
		w.log.Error("no handler for task, dropping", fields)
		w.opts.Metrics.TaskAbandoned(t.Name)
		return true
	}

	start := w.now()
	err := safeRun(ctx, reg.handler, t)
	w.opts.Metrics.TaskProcessed(t.Name, err)
	fields["duration_ms"] = w.now().Sub(start).Milliseconds()

	if err == nil {
		w.log.Debug("task done", fields)
		return true
	}
	fields["err"] = err.Error()

	delay, retry := reg.policy.Next(t.Attempt)
	if IsPermanent(err) || !retry {
		w.log.Error("task abandoned", fields)
		w.opts.Metrics.TaskAbandoned(t.Name)
		return true
	}

	t.Attempt++
	t.RunAt = w.now().Add(delay)
	fields["retry_in"] = delay.String()
	// Re-encolar con un ctx propio: en shutdown no se pierde el reintento.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), brokerOpTimeout)
	defer cancel()
	if qerr := w.broker.Enqueue(rctx, t); qerr != nil {
		fields["enqueue_err"] = qerr.Error()
		w.log.Error("task retry enqueue failed, left reserved", fields)
		return false
	}
	w.log.Warn("task failed, retry scheduled", fields)
	return true
}

func safeRun(ctx context.Context, h HandlerFunc, t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panic: %v\n%s", r, debug.Stack())
		}
	}()
	return h(ctx, t)
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
