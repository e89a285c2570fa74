package pets

import (
	"cmp"
	"net/url"
	"strings"

	"pet-vaccinations/internal/platform/pagination"
	"pet-vaccinations/internal/platform/query"
)

var SortableFields = []string{"name", "breed", "age", "created_at", "updated_at"}

var DefaultSort = query.Sort{Field: "created_at", Desc: true}

// ListQuery son los filtros reconocidos para listar mascotas. Vacío = sin filtro.
type ListQuery struct {
	Breed                  string
	AgeCategory            AgeCategory
	HasExpiredVaccinations *bool

	Sort query.Sort
	Page pagination.Params
}

// ParseListQuery: parámetros desconocidos o con valores no reconocidos se ignoran.
func ParseListQuery(v url.Values) ListQuery {
	q := ListQuery{
		Breed: strings.TrimSpace(v.Get("breed")),
		Sort:  query.ParseSort(v.Get("sort"), SortableFields, DefaultSort),
		Page:  pagination.Parse(v.Get("page"), v.Get("per_page")),
	}
	if c, ok := ParseAgeCategory(v.Get("age_category")); ok {
		q.AgeCategory = c
	}
	switch strings.TrimSpace(v.Get("has_expired_vaccinations")) {
	case "true":
		b := true
		q.HasExpiredVaccinations = &b
	case "false":
		b := false
		q.HasExpiredVaccinations = &b
	}
	return q
}

// Predicate compone los filtros en orden fijo: breed, age_category, has_expired_vaccinations.
// hasExpired debe ser un test de pertenencia (set), no un recorrido por mascota.
func (q ListQuery) Predicate(hasExpired func(petID string) bool) query.Predicate[Pet] {
	return query.All(q.byBreed(), q.byAgeCategory(), q.byExpired(hasExpired))
}

func (q ListQuery) byBreed() query.Predicate[Pet] {
	if q.Breed == "" {
		return nil
	}
	return func(p Pet) bool { return strings.EqualFold(p.Breed, q.Breed) }
}

func (q ListQuery) byAgeCategory() query.Predicate[Pet] {
	lo, hi, ok := q.AgeCategory.Bounds()
	if !ok {
		return nil
	}
	return func(p Pet) bool { return p.Age >= lo && p.Age < hi }
}

func (q ListQuery) byExpired(hasExpired func(string) bool) query.Predicate[Pet] {
	if q.HasExpiredVaccinations == nil || hasExpired == nil {
		return nil
	}
	want := *q.HasExpiredVaccinations
	return func(p Pet) bool { return hasExpired(p.ID) == want }
}

// Compare ordena según s; empata por id para paginar de forma estable.
func Compare(s query.Sort) func(a, b Pet) int {
	return func(a, b Pet) int {
		var c int
		switch s.Field {
		case "name":
			c = strings.Compare(a.Name, b.Name)
		case "breed":
			c = strings.Compare(a.Breed, b.Breed)
		case "age":
			c = cmp.Compare(a.Age, b.Age)
		case "updated_at":
			c = a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
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
