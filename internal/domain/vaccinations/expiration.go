package vaccinations

import (
	"slices"
	"time"

	"pet-vaccinations/internal/domain/pets"
	"pet-vaccinations/internal/platform/dates"
)

const (
	DefaultExpiringSoonDays = 30
	UpcomingLimit           = 3
)

// Normalize fuerza Expired=true si la fecha de vencimiento ya pasó. Nunca lo vuelve a false.
func Normalize(r Record, today time.Time) Record {
	if r.ExpiryDate.Before(dates.On(today)) {
		r.Expired = true
	}
	return r
}

// IsDue indica si el sweep debe marcar r.
func IsDue(r Record, today time.Time) bool {
	return !r.Expired && r.ExpiryDate.Before(dates.On(today))
}

// DaysUntilExpiry es 0 para registros vencidos. Puede ser negativo si el sweep aún no corrió.
func DaysUntilExpiry(r Record, today time.Time) int {
	if r.Expired {
		return 0
	}
	return dates.DaysBetween(today, r.ExpiryDate)
}

func IsExpiringSoon(r Record, today time.Time, window int) bool {
	return !r.Expired && DaysUntilExpiry(r, today) <= window
}

// BuildOverview resume los registros de una mascota. records puede venir en cualquier orden.
func BuildOverview(records []Record, today time.Time, window int) pets.Overview {
	var ov pets.Overview
	upcoming := make([]Record, 0)

	for _, r := range records {
		ov.Summary.Total++
		if r.Expired {
			ov.Summary.Expired++
			continue
		}
		ov.Summary.Active++
		if IsExpiringSoon(r, today, window) {
			ov.Summary.ExpiringSoon++
			upcoming = append(upcoming, r)
		}
	}

	slices.SortFunc(upcoming, Compare(DefaultSort))
	if len(upcoming) > UpcomingLimit {
		upcoming = upcoming[:UpcomingLimit]
	}

	ov.Upcoming = make([]pets.UpcomingExpiration, 0, len(upcoming))
	for _, r := range upcoming {
		ov.Upcoming = append(ov.Upcoming, pets.UpcomingExpiration{
			ID:              r.ID,
			Name:            r.Name,
			ExpiryDate:      r.ExpiryDate,
			DaysUntilExpiry: DaysUntilExpiry(r, today),
		})
	}
	return ov
}
