package pets

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"pet-vaccinations/internal/platform/errs"
	"pet-vaccinations/internal/platform/pagination"
	"pet-vaccinations/internal/platform/query"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Pet
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(_ context.Context, p Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(_ context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) List(_ context.Context, q ListQuery) ([]Pet, int, error) {
	all := make([]Pet, 0, len(r.byID))
	for _, p := range r.byID {
		all = append(all, p)
	}
	all = query.Filter(all, q.Predicate(func(string) bool { return false }))
	slices.SortFunc(all, Compare(q.Sort))
	return pagination.Slice(all, q.Page), len(all), nil
}

func (r *testRepo) TouchNotificationSentAt(_ context.Context, id string, at time.Time) error {
	p, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	p.LastNotificationSentAt = &at
	r.byID[id] = p
	return nil
}

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func newTestService() (*Service, *testRepo, *time.Time) {
	repo := newTestRepo()
	svc := NewService(repo)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, repo, &now
}

func TestService_CreateTrimsAndStamps(t *testing.T) {
	svc, repo, now := newTestService()

	p, err := svc.Create(context.Background(), Input{Name: strp("  Rex "), Breed: strp("Labrador"), Age: intp(3)})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.ID == "" || p.Name != "Rex" {
		t.Fatalf("unexpected pet: %#v", p)
	}
	if !p.CreatedAt.Equal(*now) || !p.UpdatedAt.Equal(*now) {
		t.Fatalf("expected timestamps = now")
	}
	if _, ok := repo.byID[p.ID]; !ok {
		t.Fatalf("expected pet persisted")
	}
}

func TestService_CreateRejectsInvalid(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.Create(context.Background(), Input{Name: strp("R")})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var verr *errs.ValidationError
	errors.As(err, &verr)
	if len(verr.Errors) != 3 {
		t.Fatalf("expected name, breed and age violations, got %v", verr.Messages())
	}
	if len(repo.byID) != 0 {
		t.Fatalf("nothing must be persisted")
	}
}

func TestService_UpdatePartial(t *testing.T) {
	svc, _, now := newTestService()
	ctx := context.Background()

	p, _ := svc.Create(ctx, Input{Name: strp("Rex"), Breed: strp("Labrador"), Age: intp(3)})
	*now = now.Add(time.Hour)

	got, err := svc.Update(ctx, p.ID, Input{Age: intp(8)})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Name != "Rex" || got.Age != 8 || got.AgeCategory() != AgeSenior {
		t.Fatalf("unexpected pet: %#v", got)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Fatalf("expected updated_at to move")
	}

	if _, err := svc.Update(ctx, p.ID, Input{Age: intp(-1)}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Update(ctx, "missing", Input{}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_ListPaginates(t *testing.T) {
	svc, _, now := newTestService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		*now = now.Add(time.Minute)
		if _, err := svc.Create(ctx, Input{Name: strp("Pet"), Breed: strp("Mixed"), Age: intp(i)}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := svc.List(ctx, ListQuery{Page: pagination.New(2, 2)})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	// Default: created_at desc => página 2 son los de edad 2 y 1.
	if page.Items[0].Age != 2 || page.Items[1].Age != 1 {
		t.Fatalf("unexpected order: %d, %d", page.Items[0].Age, page.Items[1].Age)
	}
	if page.Meta.TotalCount != 5 || page.Meta.TotalPages != 3 {
		t.Fatalf("unexpected meta: %#v", page.Meta)
	}
	if page.Meta.NextPage == nil || *page.Meta.NextPage != 3 || page.Meta.PrevPage == nil || *page.Meta.PrevPage != 1 {
		t.Fatalf("unexpected next/prev: %#v", page.Meta)
	}
}

func TestService_MarkNotified(t *testing.T) {
	svc, repo, now := newTestService()
	ctx := context.Background()

	p, _ := svc.Create(ctx, Input{Name: strp("Rex"), Breed: strp("Labrador"), Age: intp(3)})
	if err := svc.MarkNotified(ctx, p.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got := repo.byID[p.ID]
	if got.LastNotificationSentAt == nil || !got.LastNotificationSentAt.Equal(*now) {
		t.Fatalf("expected last_notification_sent_at = now, got %v", got.LastNotificationSentAt)
	}
}
