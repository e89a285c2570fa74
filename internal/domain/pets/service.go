package pets

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-vaccinations/internal/platform/pagination"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Input: punteros para PATCH real, nil = no tocar. En Create, nil = vacío.
type Input struct {
	Name  *string
	Breed *string
	Age   *int

	// ageErr lo llena el handler cuando age llegó pero no es un entero.
	ageErr string
}

type Page struct {
	Items []Pet
	Meta  pagination.Meta
}

func (s *Service) Create(ctx context.Context, in Input) (Pet, error) {
	name, breed := deref(in.Name), deref(in.Breed)
	if err := validate(name, breed, in.Age, in.ageErr); err != nil {
		return Pet{}, err
	}

	now := s.now().UTC()
	p := Pet{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Breed:     strings.TrimSpace(breed),
		Age:       *in.Age,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Breed != nil {
		p.Breed = *in.Breed
	}
	if in.Age != nil {
		p.Age = *in.Age
	}
	age := p.Age
	if err := validate(p.Name, p.Breed, &age, in.ageErr); err != nil {
		return Pet{}, err
	}

	p.Name = strings.TrimSpace(p.Name)
	p.Breed = strings.TrimSpace(p.Breed)
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List filtra y ordena antes de paginar (lo hace el repo).
func (s *Service) List(ctx context.Context, q ListQuery) (Page, error) {
	q.Page = pagination.New(q.Page.Page, q.Page.PerPage)
	if q.Sort.Field == "" {
		q.Sort = DefaultSort
	}

	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Meta: pagination.NewMeta(q.Page, total)}, nil
}

// MarkNotified registra el envío de una notificación de vencimiento.
func (s *Service) MarkNotified(ctx context.Context, id string) error {
	return s.repo.TouchNotificationSentAt(ctx, id, s.now().UTC())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
