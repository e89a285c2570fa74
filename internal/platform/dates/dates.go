package dates

import (
	"strings"
	"time"
)

// Layout de fechas calendario en API y base de datos.
const Layout = "2006-01-02"

// On devuelve la fecha calendario de t (medianoche UTC), según la location de t.
func On(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today devuelve la fecha de hoy en loc. loc nil => UTC.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return On(now.In(loc))
}

// DaysBetween devuelve to - from en días completos (ambos como fecha calendario).
// Usa Unix en lugar de Sub, que satura a ~292 años.
func DaysBetween(from, to time.Time) int {
	return int((On(to).Unix() - On(from).Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// AddDays suma días a una fecha calendario.
func AddDays(d time.Time, days int) time.Time {
	return On(d).AddDate(0, 0, days)
}

// Parse acepta YYYY-MM-DD (y RFC3339, tomando solo la fecha).
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(Layout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return On(t), nil
}

func Format(d time.Time) string {
	return d.Format(Layout)
}
