package pets

import (
	"context"
	"time"
)

// VaccinationSummary son los conteos de vacunas de una mascota.
type VaccinationSummary struct {
	Total        int
	Expired      int
	Active       int
	ExpiringSoon int
}

type UpcomingExpiration struct {
	ID              string
	Name            string
	ExpiryDate      time.Time
	DaysUntilExpiry int
}

// Overview es el estado de vacunación que acompaña a cada mascota en la API.
type Overview struct {
	Summary  VaccinationSummary
	Upcoming []UpcomingExpiration
}

func (o Overview) HasExpired() bool { return o.Summary.Expired > 0 }

// OverviewProvider lo implementa vaccinations.
// Vive acá para evitar ciclos de imports (pets <-> vaccinations).
// Overviews debe resolver todos los ids en una sola consulta.
type OverviewProvider interface {
	Overviews(ctx context.Context, petIDs []string) (map[string]Overview, error)
}
