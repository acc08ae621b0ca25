package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-server/internal/domain/entity"
	"github.com/jhoicas/estoque-server/internal/domain/repository"
)

// ReportRepo calcula los reportes recorriendo los mapas.
type ReportRepo struct {
	s *Store
}

var _ repository.ReportRepository = (*ReportRepo)(nil)

func (r *ReportRepo) PriceList(_ context.Context) ([]repository.PriceRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]repository.PriceRow, 0)
	for _, p := range r.s.productsByName() {
		out = append(out, repository.PriceRow{Product: p.Name, Category: p.CategoryName, Price: p.Price, Unit: p.Unit})
	}
	return out, nil
}

func (r *ReportRepo) Balance(_ context.Context) ([]repository.BalanceRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]repository.BalanceRow, 0)
	for _, p := range r.s.productsByName() {
		out = append(out, repository.BalanceRow{
			Product:    p.Name,
			Category:   p.CategoryName,
			Quantity:   p.StockQuantity,
			Price:      p.Price,
			TotalValue: p.Price.Mul(decimal.NewFromInt(int64(p.StockQuantity))),
		})
	}
	return out, nil
}

func (r *ReportRepo) BelowMinimum(_ context.Context) ([]repository.ThresholdRow, error) {
	return r.threshold(func(p *entity.Product) bool { return p.StockQuantity < p.MinQuantity }), nil
}

func (r *ReportRepo) AboveMaximum(_ context.Context) ([]repository.ThresholdRow, error) {
	return r.threshold(func(p *entity.Product) bool { return p.StockQuantity > p.MaxQuantity }), nil
}

func (r *ReportRepo) threshold(match func(*entity.Product) bool) []repository.ThresholdRow {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]repository.ThresholdRow, 0)
	for _, p := range r.s.productsByName() {
		if !match(p) {
			continue
		}
		out = append(out, repository.ThresholdRow{
			Product:     p.Name,
			Category:    p.CategoryName,
			Quantity:    p.StockQuantity,
			MinQuantity: p.MinQuantity,
			MaxQuantity: p.MaxQuantity,
		})
	}
	return out
}

func (r *ReportRepo) QuantityByCategory(_ context.Context) ([]repository.CategoryCountRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	cats := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Name != cats[j].Name {
			return cats[i].Name < cats[j].Name
		}
		return cats[i].ID < cats[j].ID
	})
	out := make([]repository.CategoryCountRow, 0, len(cats))
	for _, c := range cats {
		out = append(out, repository.CategoryCountRow{Category: c.Name, Count: r.s.countProducts(c.ID)})
	}
	return out, nil
}

// MostMoved solo incluye productos existentes con al menos un movimiento.
func (r *ReportRepo) MostMoved(_ context.Context) ([]repository.MovedRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byProduct := make(map[int64]*repository.MovedRow)
	for _, m := range r.s.movements {
		p := r.s.productView(m.ProductID)
		if p == nil {
			continue
		}
		row, ok := byProduct[p.ID]
		if !ok {
			row = &repository.MovedRow{Product: p.Name, Category: p.CategoryName}
			byProduct[p.ID] = row
		}
		if m.Type == entity.MovementExit {
			row.Exits += m.Quantity
		} else {
			row.Entries += m.Quantity
		}
		row.Total += m.Quantity
	}
	out := make([]repository.MovedRow, 0, len(byProduct))
	for _, row := range byProduct {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Product < out[j].Product
	})
	return out, nil
}

// productsByName requiere s.mu tomado.
func (s *Store) productsByName() []*entity.Product {
	out := make([]*entity.Product, 0, len(s.products))
	for id := range s.products {
		out = append(out, s.productView(id))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
