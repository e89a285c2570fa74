package memory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"pet-vaccinations/internal/domain/pets"
	"pet-vaccinations/internal/platform/pagination"
	"pet-vaccinations/internal/platform/query"
)

type petRepo struct {
	s *Store
}

func NewPetRepo(s *Store) pets.Repository {
	return &petRepo{s: s}
}

func (r *petRepo) Create(_ context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.s.pets[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.s.pets[p.ID] = p
	return nil
}

func (r *petRepo) Update(_ context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, exists := r.s.pets[p.ID]
	if !exists {
		return pets.ErrNotFound
	}
	// last_notification_sent_at solo lo escribe TouchNotificationSentAt.
	p.LastNotificationSentAt = cur.LastNotificationSentAt
	r.s.pets[p.ID] = p
	return nil
}

func (r *petRepo) GetByID(_ context.Context, id string) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[id]; !ok {
		return pets.ErrNotFound
	}
	delete(r.s.pets, id)
	for rid, rec := range r.s.records {
		if rec.PetID == id {
			delete(r.s.records, rid)
		}
	}
	return nil
}

func (r *petRepo) List(_ context.Context, q pets.ListQuery) ([]pets.Pet, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var hasExpired func(string) bool
	if q.HasExpiredVaccinations != nil {
		set := r.s.petsWithExpiredLocked()
		hasExpired = func(id string) bool {
			_, ok := set[id]
			return ok
		}
	}

	all := make([]pets.Pet, 0, len(r.s.pets))
	for _, p := range r.s.pets {
		all = append(all, p)
	}

	filtered := query.Filter(all, q.Predicate(hasExpired))
	slices.SortFunc(filtered, pets.Compare(q.Sort))
	return pagination.Slice(filtered, q.Page), len(filtered), nil
}

func (r *petRepo) TouchNotificationSentAt(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.pets[id]
	if !ok {
		return pets.ErrNotFound
	}
	p.LastNotificationSentAt = &at
	r.s.pets[id] = p
	return nil
}
