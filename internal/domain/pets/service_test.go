package pets

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Pet

	// getErr simula una caída del storage en GetByID.
	getErr error
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	if r.getErr != nil {
		return Pet{}, r.getErr
	}
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestCreate_NormalizesInput(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:       "  Milo ",
		Species:    " DOG ",
		Annotation: " Alergias: Pollo ",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == "" || p.Name != "Milo" || p.Species != SpeciesDog || p.Annotation != "Alergias: Pollo" {
		t.Fatalf("unexpected pet: %#v", p)
	}
	if !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Fatalf("timestamps should match on create")
	}
}

func TestCreate_InvalidInput(t *testing.T) {
	svc, _ := newTestService()

	cases := []struct {
		name  string
		owner string
		in    CreateInput
	}{
		{"no owner", "", CreateInput{Name: "Milo", Species: "dog"}},
		{"no name", "owner-1", CreateInput{Name: " ", Species: "dog"}},
		{"no species", "owner-1", CreateInput{Name: "Milo"}},
		{"unknown species", "owner-1", CreateInput{Name: "Milo", Species: "hamster"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.owner, tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestUpdateAnnotation_OwnerOnly(t *testing.T) {
	svc, repo := newTestService()

	p, _ := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Milo", Species: "dog"})

	if _, err := svc.UpdateAnnotation(context.Background(), p.ID, "intruder", "Edad: Senior"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := svc.UpdateAnnotation(context.Background(), p.ID, "owner-1", " Edad: Senior ")
	if err != nil {
		t.Fatalf("UpdateAnnotation: %v", err)
	}
	if updated.Annotation != "Edad: Senior" || repo.byID[p.ID].Annotation != "Edad: Senior" {
		t.Fatalf("annotation not stored: %#v", repo.byID[p.ID])
	}

	if _, err := svc.UpdateAnnotation(context.Background(), "missing", "owner-1", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByID_MapsErrors(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.GetByID(context.Background(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByID_StorageErrorIsNotNotFound(t *testing.T) {
	svc, repo := newTestService()
	down := errors.New("connection refused")
	repo.getErr = down

	_, err := svc.GetByID(context.Background(), "pet-1")
	if !errors.Is(err, down) {
		t.Fatalf("expected storage error to pass through, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("storage error must not read as not found")
	}

	if _, err := svc.UpdateAnnotation(context.Background(), "pet-1", "owner-1", "x"); !errors.Is(err, down) {
		t.Fatalf("expected storage error on update, got %v", err)
	}
}

func TestListByOwner(t *testing.T) {
	svc, _ := newTestService()

	_, _ = svc.Create(context.Background(), "owner-1", CreateInput{Name: "Milo", Species: "dog"})
	_, _ = svc.Create(context.Background(), "owner-1", CreateInput{Name: "Luna", Species: "cat"})
	_, _ = svc.Create(context.Background(), "owner-2", CreateInput{Name: "Rocco", Species: "dog"})

	items, err := svc.ListByOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Luna" || items[1].Name != "Milo" {
		t.Fatalf("unexpected pets: %#v", items)
	}
	if items[1].Species.Label() != "Perro" || items[0].Species.Label() != "Gato" {
		t.Fatalf("unexpected species labels")
	}
}
