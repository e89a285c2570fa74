package vaccinations

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"pet-vaccinations/internal/platform/dates"
	"pet-vaccinations/internal/platform/pagination"
	"pet-vaccinations/internal/platform/query"
)

var SortableFields = []string{"name", "vaccination_date", "expiry_date", "created_at", "updated_at"}

var DefaultSort = query.Sort{Field: "expiry_date"}

// ListQuery son los filtros de registros de una mascota.
// Today lo fija el service; es el "hoy" contra el que se evalúa la ventana.
type ListQuery struct {
	Status             Status
	ExpiringWithinDays *int

	Today time.Time
	Sort  query.Sort
	Page  pagination.Params
}

// ParseListQuery: status desconocido se ignora, days_until_expiry no numérico se ignora y negativo vale 0.
func ParseListQuery(v url.Values) ListQuery {
	q := ListQuery{
		Sort: query.ParseSort(v.Get("sort"), SortableFields, DefaultSort),
		Page: pagination.Parse(v.Get("page"), v.Get("per_page")),
	}

	switch Status(strings.TrimSpace(v.Get("status"))) {
	case StatusExpired:
		q.Status = StatusExpired
	case StatusActive:
		q.Status = StatusActive
	}

	if raw := strings.TrimSpace(v.Get("days_until_expiry")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			if n < 0 {
				n = 0
			}
			q.ExpiringWithinDays = &n
		}
	}
	return q
}

// ExpiringBefore es el límite inclusivo de expiry_date para el filtro expiring soon.
func (q ListQuery) ExpiringBefore() (time.Time, bool) {
	if q.ExpiringWithinDays == nil {
		return time.Time{}, false
	}
	return dates.AddDays(q.Today, *q.ExpiringWithinDays), true
}

// Predicate compone en orden fijo: status, expiring soon (activo y expiry <= hoy + días).
func (q ListQuery) Predicate() query.Predicate[Record] {
	return query.All(q.byStatus(), q.byExpiringSoon())
}

func (q ListQuery) byStatus() query.Predicate[Record] {
	switch q.Status {
	case StatusExpired:
		return func(r Record) bool { return r.Expired }
	case StatusActive:
		return func(r Record) bool { return !r.Expired }
	default:
		return nil
	}
}

func (q ListQuery) byExpiringSoon() query.Predicate[Record] {
	limit, ok := q.ExpiringBefore()
	if !ok {
		return nil
	}
	return func(r Record) bool { return !r.Expired && !r.ExpiryDate.After(limit) }
}

// Compare ordena según s; empata por id.
func Compare(s query.Sort) func(a, b Record) int {
	return func(a, b Record) int {
		var c int
		switch s.Field {
		case "name":
			c = strings.Compare(a.Name, b.Name)
		case "vaccination_date":
			c = a.VaccinationDate.Compare(b.VaccinationDate)
		case "created_at":
			c = a.CreatedAt.Compare(b.CreatedAt)
		case "updated_at":
			c = a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			c = a.ExpiryDate.Compare(b.ExpiryDate)
		}
		if s.Desc {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		return c
	}
}
