package vaccinations

import (
	"context"
	"time"

	"pet-vaccinations/internal/platform/errs"
)

var (
	ErrNotFound       = errs.NotFound("vaccination record not found")
	ErrAlreadyExpired = errs.Conflict("Vaccination record is already marked as expired")
)

type Repository interface {
	Create(ctx context.Context, r Record) error

	// Update persiste r. Con keepExpired, un expired=true ya guardado se conserva aunque r traiga false.
	// Devuelve el registro guardado y el valor de expired previo a la escritura.
	Update(ctx context.Context, r Record, keepExpired bool) (Record, bool, error)

	// GetByID no filtra por mascota (lo usa el dispatcher).
	GetByID(ctx context.Context, id string) (Record, error)
	GetForPet(ctx context.Context, petID, id string) (Record, error)
	Delete(ctx context.Context, petID, id string) error

	ListByPet(ctx context.Context, petID string, q ListQuery) ([]Record, int, error)

	// ListByPets carga los registros de varias mascotas en una sola consulta.
	ListByPets(ctx context.Context, petIDs []string) (map[string][]Record, error)

	// MarkExpired es condicional (expired = false). Si ya estaba vencido devuelve ErrAlreadyExpired.
	MarkExpired(ctx context.Context, id string, at time.Time) (Record, error)

	// MarkExpiredBefore marca en una sola operación todo registro con expiry_date < today y expired = false.
	// Devuelve los ids que cambiaron.
	MarkExpiredBefore(ctx context.Context, today, at time.Time) ([]string, error)
}
