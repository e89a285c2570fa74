package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 25
	MaxPerPage     = 100

	// MaxPage evita que (page-1)*per_page desborde int.
	MaxPage = math.MaxInt / MaxPerPage
)

// Params son page/per_page ya acotados. Construir con New o Parse.
type Params struct {
	Page    int
	PerPage int
}

// New acota los valores: page < 1 => 1, page > MaxPage => MaxPage,
// per_page < 1 => default, per_page > 100 => 100.
func New(page, perPage int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Params{Page: page, PerPage: perPage}
}

// Parse lee page/per_page desde query string. Valores no numéricos => defaults.
func Parse(rawPage, rawPerPage string) Params {
	return New(atoiOr(rawPage, DefaultPage), atoiOr(rawPerPage, DefaultPerPage))
}

func (p Params) normalized() Params {
	return New(p.Page, p.PerPage)
}

func (p Params) Offset() int {
	p = p.normalized()
	return (p.Page - 1) * p.PerPage
}

func (p Params) Limit() int {
	return p.normalized().PerPage
}

// Meta es la metadata de página que devuelve la API.
type Meta struct {
	CurrentPage int  `json:"current_page"`
	NextPage    *int `json:"next_page"`
	PrevPage    *int `json:"prev_page"`
	TotalPages  int  `json:"total_pages"`
	TotalCount  int  `json:"total_count"`
	PerPage     int  `json:"per_page"`
}

// NewMeta calcula la metadata para totalCount elementos ya filtrados.
func NewMeta(p Params, totalCount int) Meta {
	p = p.normalized()
	if totalCount < 0 {
		totalCount = 0
	}
	totalPages := (totalCount + p.PerPage - 1) / p.PerPage

	m := Meta{
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		PerPage:     p.PerPage,
	}
	if p.Page < totalPages {
		n := p.Page + 1
		m.NextPage = &n
	}
	if p.Page > 1 {
		prev := p.Page - 1
		m.PrevPage = &prev
	}
	return m
}

// Slice corta items (ya filtrados y ordenados) según p.
func Slice[T any](items []T, p Params) []T {
	off := p.Offset()
	if off < 0 || off >= len(items) {
		return []T{}
	}
	end := off + p.Limit()
	if end < off || end > len(items) {
		end = len(items)
	}
	out := make([]T, end-off)
	copy(out, items[off:end])
	return out
}

func atoiOr(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
