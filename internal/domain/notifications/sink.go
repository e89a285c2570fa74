package notifications

//go:generate mockgen -source=sink.go -destination=mocks/mock_sink.go -package=mocks Sink

import (
	"context"

	"pet-vaccinations/internal/platform/logger"
)

// Sink es un canal de entrega. Un error que no envuelve taskqueue.Permanent se reintenta.
type Sink interface {
	Name() string
	Send(ctx context.Context, e Event) error
}

// LogSink deja la notificación en el log (equivalente al "email simulado").
type LogSink struct {
	log logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	if log == nil {
		log = logger.Nop()
	}
	return &LogSink{log: log.With(map[string]any{"component": "notifications", "channel": "log"})}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Send(_ context.Context, e Event) error {
	s.log.Info("vaccination expiration notification", map[string]any{
		"pet_id":                e.PetID,
		"pet_name":              e.PetName,
		"breed":                 e.PetBreed,
		"vaccination_record_id": e.VaccinationRecordID,
		"vaccination":           e.VaccinationName,
		"vaccination_date":      e.VaccinationDate,
		"expiry_date":           e.ExpiryDate,
		"status":                "EXPIRED",
	})
	return nil
}
