// Package query contiene las piezas comunes del filtrado: orden con whitelist
// y composición de predicados puros.
package query

import "strings"

// Sort es un campo de orden ya validado contra una whitelist.
type Sort struct {
	Field string
	Desc  bool
}

func (s Sort) Direction() string {
	if s.Desc {
		return "DESC"
	}
	return "ASC"
}

// ParseSort interpreta "campo" (asc) o "-campo" (desc).
// Un campo fuera de allowed (o vacío) devuelve def: nunca es error.
func ParseSort(raw string, allowed []string, def Sort) Sort {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}

	desc := strings.HasPrefix(raw, "-")
	field := strings.TrimPrefix(raw, "-")

	for _, a := range allowed {
		if a == field {
			return Sort{Field: field, Desc: desc}
		}
	}
	return def
}

// Predicate es un filtro puro sobre una entidad.
type Predicate[T any] func(T) bool

// All compone predicados con AND en el orden recibido.
func All[T any](preds ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range preds {
			if p != nil && !p(v) {
				return false
			}
		}
		return true
	}
}

// Filter aplica pred sobre items y devuelve un slice nuevo.
func Filter[T any](items []T, pred Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}
