package memory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"pet-vaccinations/internal/domain/vaccinations"
	"pet-vaccinations/internal/platform/pagination"
)

type vaccinationRepo struct {
	s *Store
}

func NewVaccinationRepo(s *Store) vaccinations.Repository {
	return &vaccinationRepo{s: s}
}

func (r *vaccinationRepo) Create(_ context.Context, rec vaccinations.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("vaccination record id required")
	}
	if _, ok := r.s.pets[rec.PetID]; !ok {
		return errors.New("vaccination record pet does not exist")
	}
	if _, exists := r.s.records[rec.ID]; exists {
		return errors.New("vaccination record already exists")
	}
	r.s.records[rec.ID] = rec
	return nil
}

func (r *vaccinationRepo) Update(_ context.Context, rec vaccinations.Record, keepExpired bool) (vaccinations.Record, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.records[rec.ID]
	if !ok {
		return vaccinations.Record{}, false, vaccinations.ErrNotFound
	}
	if keepExpired {
		rec.Expired = rec.Expired || cur.Expired
	}
	r.s.records[rec.ID] = rec
	return rec, cur.Expired, nil
}

func (r *vaccinationRepo) GetByID(_ context.Context, id string) (vaccinations.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.records[id]
	if !ok {
		return vaccinations.Record{}, vaccinations.ErrNotFound
	}
	return rec, nil
}

func (r *vaccinationRepo) GetForPet(_ context.Context, petID, id string) (vaccinations.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.records[id]
	if !ok || rec.PetID != petID {
		return vaccinations.Record{}, vaccinations.ErrNotFound
	}
	return rec, nil
}

func (r *vaccinationRepo) Delete(_ context.Context, petID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.records[id]
	if !ok || rec.PetID != petID {
		return vaccinations.ErrNotFound
	}
	delete(r.s.records, id)
	return nil
}

func (r *vaccinationRepo) ListByPet(_ context.Context, petID string, q vaccinations.ListQuery) ([]vaccinations.Record, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	pred := q.Predicate()
	out := make([]vaccinations.Record, 0)
	for _, rec := range r.s.records {
		if rec.PetID == petID && pred(rec) {
			out = append(out, rec)
		}
	}

	slices.SortFunc(out, vaccinations.Compare(q.Sort))
	return pagination.Slice(out, q.Page), len(out), nil
}

func (r *vaccinationRepo) ListByPets(_ context.Context, petIDs []string) (map[string][]vaccinations.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	want := make(map[string]struct{}, len(petIDs))
	for _, id := range petIDs {
		want[id] = struct{}{}
	}

	out := make(map[string][]vaccinations.Record, len(petIDs))
	for _, rec := range r.s.records {
		if _, ok := want[rec.PetID]; ok {
			out[rec.PetID] = append(out[rec.PetID], rec)
		}
	}
	return out, nil
}

func (r *vaccinationRepo) MarkExpired(_ context.Context, id string, at time.Time) (vaccinations.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.records[id]
	if !ok {
		return vaccinations.Record{}, vaccinations.ErrNotFound
	}
	if rec.Expired {
		return vaccinations.Record{}, vaccinations.ErrAlreadyExpired
	}
	rec.Expired = true
	rec.UpdatedAt = at
	r.s.records[id] = rec
	return rec, nil
}

func (r *vaccinationRepo) MarkExpiredBefore(_ context.Context, today, at time.Time) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids := make([]string, 0)
	for id, rec := range r.s.records {
		if !vaccinations.IsDue(rec, today) {
			continue
		}
		rec.Expired = true
		rec.UpdatedAt = at
		r.s.records[id] = rec
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

