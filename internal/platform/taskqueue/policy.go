package taskqueue

import (
	"errors"
	"time"
)

// RetryPolicy: MaxRetries reintentos como máximo; Backoff(n) es la espera antes del reintento n (1-based).
type RetryPolicy struct {
	MaxRetries int
	Backoff    func(retry int) time.Duration
}

// NoRetry abandona al primer fallo.
var NoRetry = RetryPolicy{}

// NotificationPolicy: 10s, 1m, 5m y luego se abandona.
var NotificationPolicy = RetryPolicy{
	MaxRetries: 3,
	Backoff:    Schedule(10*time.Second, time.Minute, 5*time.Minute),
}

// Schedule devuelve un Backoff con esperas fijas; repite la última si hay más reintentos que esperas.
func Schedule(delays ...time.Duration) func(int) time.Duration {
	return func(retry int) time.Duration {
		if len(delays) == 0 {
			return 0
		}
		i := retry - 1
		if i < 0 {
			i = 0
		}
		if i >= len(delays) {
			i = len(delays) - 1
		}
		return delays[i]
	}
}

// Next indica si una tarea que ya hizo attempt reintentos puede reintentarse, y con qué espera.
func (p RetryPolicy) Next(attempt int) (time.Duration, bool) {
	if attempt >= p.MaxRetries {
		return 0, false
	}
	if p.Backoff == nil {
		return 0, true
	}
	return p.Backoff(attempt + 1), true
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marca un error como no reintentable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}
