package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-server/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de reportes (solo lectura).
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

func (r *ReportRepo) PriceList(ctx context.Context) ([]repository.PriceRow, error) {
	return collect(ctx, r.q, "price list", `
		SELECT p.name, c.name, p.price, p.unit
		FROM products p JOIN categories c ON c.id = p.category_id
		ORDER BY p.name, p.id`,
		func(rows pgx.Rows) (repository.PriceRow, error) {
			var row repository.PriceRow
			err := rows.Scan(&row.Product, &row.Category, &row.Price, &row.Unit)
			return row, err
		})
}

func (r *ReportRepo) Balance(ctx context.Context) ([]repository.BalanceRow, error) {
	return collect(ctx, r.q, "balance", `
		SELECT p.name, c.name, p.stock_quantity, p.price, p.price * p.stock_quantity
		FROM products p JOIN categories c ON c.id = p.category_id
		ORDER BY p.name, p.id`,
		func(rows pgx.Rows) (repository.BalanceRow, error) {
			var row repository.BalanceRow
			err := rows.Scan(&row.Product, &row.Category, &row.Quantity, &row.Price, &row.TotalValue)
			return row, err
		})
}

func (r *ReportRepo) BelowMinimum(ctx context.Context) ([]repository.ThresholdRow, error) {
	return r.threshold(ctx, "below minimum", "p.stock_quantity < p.min_quantity")
}

func (r *ReportRepo) AboveMaximum(ctx context.Context) ([]repository.ThresholdRow, error) {
	return r.threshold(ctx, "above maximum", "p.stock_quantity > p.max_quantity")
}

func (r *ReportRepo) threshold(ctx context.Context, name, cond string) ([]repository.ThresholdRow, error) {
	return collect(ctx, r.q, name, `
		SELECT p.name, c.name, p.stock_quantity, p.min_quantity, p.max_quantity
		FROM products p JOIN categories c ON c.id = p.category_id
		WHERE `+cond+`
		ORDER BY p.name, p.id`,
		func(rows pgx.Rows) (repository.ThresholdRow, error) {
			var row repository.ThresholdRow
			err := rows.Scan(&row.Product, &row.Category, &row.Quantity, &row.MinQuantity, &row.MaxQuantity)
			return row, err
		})
}

// QuantityByCategory usa LEFT JOIN para incluir categorías sin productos.
func (r *ReportRepo) QuantityByCategory(ctx context.Context) ([]repository.CategoryCountRow, error) {
	return collect(ctx, r.q, "quantity by category", `
		SELECT c.name, COUNT(p.id)
		FROM categories c LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.name, c.id`,
		func(rows pgx.Rows) (repository.CategoryCountRow, error) {
			var row repository.CategoryCountRow
			err := rows.Scan(&row.Category, &row.Count)
			return row, err
		})
}

func (r *ReportRepo) MostMoved(ctx context.Context) ([]repository.MovedRow, error) {
	return collect(ctx, r.q, "most moved", `
		SELECT p.name, c.name,
		       SUM(CASE WHEN m.type = 'ENTRY' THEN m.quantity ELSE 0 END) AS entries,
		       SUM(CASE WHEN m.type = 'EXIT'  THEN m.quantity ELSE 0 END) AS exits,
		       SUM(m.quantity) AS total
		FROM movements m
		JOIN products p ON p.id = m.product_id
		JOIN categories c ON c.id = p.category_id
		GROUP BY p.id, p.name, c.name
		ORDER BY total DESC, p.name`,
		func(rows pgx.Rows) (repository.MovedRow, error) {
			var row repository.MovedRow
			err := rows.Scan(&row.Product, &row.Category, &row.Entries, &row.Exits, &row.Total)
			return row, err
		})
}

func collect[T any](ctx context.Context, q Querier, name, query string, scan func(pgx.Rows) (T, error)) ([]T, error) {
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", name, err)
	}
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
