package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-snack-assistant/internal/domain/products"
)

// productRepo conserva el orden de alta; el asistente muestra el catálogo en ese orden.
type productRepo struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]products.Product
}

// NewProductRepo crea el repo, opcionalmente con productos iniciales (seed de dev).
func NewProductRepo(seed ...products.Product) products.Repository {
	r := &productRepo{
		byID: make(map[string]products.Product),
	}
	for _, p := range seed {
		_ = r.Create(context.Background(), p)
	}
	return r
}

func (r *productRepo) Create(ctx context.Context, p products.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("product id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("product already exists")
	}
	r.byID[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (products.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return products.Product{}, products.ErrNotFound
	}
	return p, nil
}

func (r *productRepo) List(ctx context.Context) ([]products.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]products.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}
