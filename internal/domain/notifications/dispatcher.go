package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pet-vaccinations/internal/domain/pets"
	"pet-vaccinations/internal/domain/vaccinations"
	"pet-vaccinations/internal/platform/errs"
	"pet-vaccinations/internal/platform/logger"
	"pet-vaccinations/internal/platform/metrics"
	"pet-vaccinations/internal/platform/taskqueue"
)

// TaskVaccinationExpiration: payload = id del registro vencido.
const TaskVaccinationExpiration = "vaccination_expiration"

// RecordSource lo cumple vaccinations.Repository.
type RecordSource interface {
	GetByID(ctx context.Context, id string) (vaccinations.Record, error)
}

// PetSource lo cumple *pets.Service.
type PetSource interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
	MarkNotified(ctx context.Context, id string) error
}

type DispatcherOptions struct {
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

type Dispatcher struct {
	records RecordSource
	pets    PetSource
	sinks   []Sink

	log     logger.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

func NewDispatcher(records RecordSource, petSource PetSource, sinks []Sink, opts DispatcherOptions) *Dispatcher {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Dispatcher{
		records: records,
		pets:    petSource,
		sinks:   sinks,
		log:     opts.Logger.With(map[string]any{"component": "notifications"}),
		metrics: opts.Metrics,
		tracer:  otel.Tracer("pet-vaccinations/notifications"),
		now:     time.Now,
	}
}

// Register asocia el handler al worker con la política de reintentos de notificaciones.
func (d *Dispatcher) Register(w *taskqueue.Worker) {
	w.Handle(TaskVaccinationExpiration, taskqueue.NotificationPolicy, d.Handle)
}

// Handle entrega la notificación de un registro. Registro o mascota inexistente = no-op.
// Todos los canales se intentan; si alguno falla de forma reintentable se reintenta la tarea entera.
func (d *Dispatcher) Handle(ctx context.Context, t taskqueue.Task) error {
	ctx, span := d.tracer.Start(ctx, "notifications.Dispatch", trace.WithAttributes(
		attribute.String("vaccination_record.id", t.Payload),
		attribute.Int("task.attempt", t.Attempt),
	))
	defer span.End()

	fields := map[string]any{"vaccination_record_id": t.Payload, "attempt": t.Attempt}

	rec, err := d.records.GetByID(ctx, t.Payload)
	if errors.Is(err, errs.ErrNotFound) {
		d.log.Info("vaccination record gone, skipping notification", fields)
		return nil
	}
	if err != nil {
		return d.fail(span, fmt.Errorf("%w: load record: %w", errs.ErrTransientDelivery, err))
	}

	pet, err := d.pets.GetByID(ctx, rec.PetID)
	if errors.Is(err, errs.ErrNotFound) {
		d.log.Info("pet gone, skipping notification", fields)
		return nil
	}
	if err != nil {
		return d.fail(span, fmt.Errorf("%w: load pet: %w", errs.ErrTransientDelivery, err))
	}

	ev := NewEvent(pet, rec, d.now())

	var (
		failures  []error
		permanent = true
	)
	for _, s := range d.sinks {
		serr := s.Send(ctx, ev)
		d.metrics.NotificationSent(s.Name(), serr)
		if serr == nil {
			continue
		}
		failures = append(failures, fmt.Errorf("%s: %w", s.Name(), serr))
		if !taskqueue.IsPermanent(serr) {
			permanent = false
		}
	}
	if len(failures) > 0 {
		joined := errors.Join(failures...)
		if permanent {
			return d.fail(span, taskqueue.Permanent(joined))
		}
		return d.fail(span, fmt.Errorf("%w: %w", errs.ErrTransientDelivery, joined))
	}

	// El envío ya ocurrió: un fallo acá se registra pero no reintenta (evita duplicar el aviso).
	if err := d.pets.MarkNotified(ctx, pet.ID); err != nil {
		fields["err"] = err.Error()
		d.log.Warn("update last_notification_sent_at failed", fields)
		return nil
	}

	d.log.Debug("vaccination expiration notified", fields)
	return nil
}

func (d *Dispatcher) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "dispatch failed")
	return err
}
