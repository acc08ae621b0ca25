package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-server/internal/domain"
	"github.com/jhoicas/estoque-server/internal/domain/entity"
	"github.com/jhoicas/estoque-server/internal/domain/repository"
)

// ProductRepo implementa repository.ProductRepository en memoria.
type ProductRepo struct {
	s  *Store
	tx *tx
}

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.s.withCatalog(r.tx, func() error {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		if _, ok := r.s.categories[p.CategoryID]; !ok {
			return domain.NotFound(fmt.Sprintf("categoria %d não encontrada", p.CategoryID))
		}
		r.s.nextProductID++
		p.ID = r.s.nextProductID
		cp := *p
		cp.CategoryName = ""
		r.s.products[p.ID] = &cp
		id := p.ID
		r.tx.record(func() { delete(r.s.products, id) })
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.view(id), nil
}

// view incluye el delta de stock pendiente de la propia transacción; requiere s.mu tomado.
func (r *ProductRepo) view(id int64) *entity.Product {
	p := r.s.productView(id)
	if p != nil && r.tx != nil {
		p.StockQuantity += r.tx.stock[id]
	}
	return p
}

// GetForUpdate bloquea el producto hasta el fin de la transacción; fuera de Run equivale a GetByID.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	if r.tx != nil {
		if err := r.tx.lockProduct(ctx, id); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Update conserva el stock actual.
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.s.withCatalog(r.tx, func() error {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		prev, ok := r.s.products[p.ID]
		if !ok {
			return domain.NotFound(fmt.Sprintf("produto %d não encontrado", p.ID))
		}
		if _, ok := r.s.categories[p.CategoryID]; !ok {
			return domain.NotFound(fmt.Sprintf("categoria %d não encontrada", p.CategoryID))
		}
		old := *prev
		cp := *p
		cp.StockQuantity = prev.StockQuantity
		cp.CategoryName = ""
		r.s.products[p.ID] = &cp
		r.tx.record(func() { r.s.products[old.ID] = &old })
		return nil
	})
}

// ApplyStockDelta dentro de Run deja el delta pendiente hasta el commit.
func (r *ProductRepo) ApplyStockDelta(_ context.Context, productID int64, delta int) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[productID]
	if !ok {
		return nil, nil
	}
	if r.tx != nil {
		r.tx.stock[productID] += delta
	} else {
		p.StockQuantity += delta
	}
	return r.view(productID), nil
}

func (r *ProductRepo) AdjustPrices(_ context.Context, percent decimal.Decimal) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	factor := decimal.NewFromInt(1).Add(percent.Div(decimal.NewFromInt(100)))
	for id, p := range r.s.products {
		old := p.Price
		p.Price = p.Price.Mul(factor).Round(2)
		r.tx.record(func() {
			if cur, ok := r.s.products[id]; ok {
				cur.Price = old
			}
		})
	}
	return int64(len(r.s.products)), nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Product, 0, len(r.s.products))
	for id, p := range r.s.products {
		if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
			continue
		}
		if f.BelowMinimum && p.StockQuantity >= p.MinQuantity {
			continue
		}
		if f.AboveMaximum && p.StockQuantity <= p.MaxQuantity {
			continue
		}
		out = append(out, r.s.productView(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil
	}
	delete(r.s.products, id)
	r.tx.record(func() { r.s.products[id] = p })
	return nil
}

// productView copia con el nombre de la categoría; requiere s.mu tomado.
func (s *Store) productView(id int64) *entity.Product {
	p, ok := s.products[id]
	if !ok {
		return nil
	}
	cp := *p
	if c, ok := s.categories[p.CategoryID]; ok {
		cp.CategoryName = c.Name
	}
	return &cp
}
