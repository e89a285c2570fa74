package pets

import (
	"context"
	"time"

	"pet-vaccinations/internal/platform/errs"
)

var ErrNotFound = errs.NotFound("pet not found")

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)

	// Delete borra la mascota y en cascada sus registros de vacunación.
	Delete(ctx context.Context, id string) error

	// List aplica filtros y orden de q y devuelve la página pedida más el total filtrado.
	List(ctx context.Context, q ListQuery) ([]Pet, int, error)

	// TouchNotificationSentAt no modifica updated_at.
	TouchNotificationSentAt(ctx context.Context, id string, at time.Time) error
}
