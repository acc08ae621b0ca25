package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/estoque-server/internal/domain"
	"github.com/jhoicas/estoque-server/internal/domain/entity"
	"github.com/jhoicas/estoque-server/internal/domain/repository"
)

// CategoryRepo implementa repository.CategoryRepository en memoria.
type CategoryRepo struct {
	s  *Store
	tx *tx
}

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextCategoryID++
	c.ID = r.s.nextCategoryID
	cp := *c
	r.s.categories[c.ID] = &cp
	id := c.ID
	r.tx.record(func() { delete(r.s.categories, id) })
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// GetForUpdate: el bloqueo de catálogo ya lo tiene RunCatalog.
func (r *CategoryRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Category, error) {
	return r.GetByID(ctx, id)
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.categories[c.ID]
	if !ok {
		return domain.NotFound(fmt.Sprintf("categoria %d não encontrada", c.ID))
	}
	old := *prev
	cp := *c
	r.s.categories[c.ID] = &cp
	r.tx.record(func() { r.s.categories[old.ID] = &old })
	return nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CategoryRepo) CountProducts(_ context.Context, categoryID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.countProducts(categoryID), nil
}

// Delete rechaza con ErrConflict si quedan productos (equivalente a la FK RESTRICT).
func (r *CategoryRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil
	}
	if r.s.countProducts(id) > 0 {
		return domain.Conflict("existem produtos associados à categoria")
	}
	delete(r.s.categories, id)
	r.tx.record(func() { r.s.categories[id] = c })
	return nil
}

// countProducts requiere s.mu tomado.
func (s *Store) countProducts(categoryID int64) int {
	n := 0
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n
}
