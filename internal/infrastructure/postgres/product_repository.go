package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-server/internal/domain"
	"github.com/jhoicas/estoque-server/internal/domain/entity"
	"github.com/jhoicas/estoque-server/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productSelect = `
	SELECT p.id, p.name, p.unit, p.price, p.stock_quantity, p.min_quantity, p.max_quantity, p.category_id, COALESCE(c.name, '')
	FROM products p LEFT JOIN categories c ON c.id = p.category_id`

// Create persiste un nuevo producto; el stock informado es el saldo inicial.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO products (name, unit, price, stock_quantity, min_quantity, max_quantity, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		p.Name, p.Unit, p.Price, p.StockQuantity, p.MinQuantity, p.MaxQuantity, p.CategoryID,
	).Scan(&p.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound(fmt.Sprintf("categoria %d não encontrada", p.CategoryID))
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return r.get(ctx, productSelect+` WHERE p.id = $1`, id)
}

// GetForUpdate obtiene el producto y bloquea su fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.get(ctx, productSelect+` WHERE p.id = $1 FOR UPDATE OF p`, id)
}

func (r *ProductRepo) get(ctx context.Context, query string, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza un producto existente. No modifica stock_quantity (se maneja vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET name = $2, unit = $3, price = $4, min_quantity = $5, max_quantity = $6, category_id = $7
		WHERE id = $1`,
		p.ID, p.Name, p.Unit, p.Price, p.MinQuantity, p.MaxQuantity, p.CategoryID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound(fmt.Sprintf("categoria %d não encontrada", p.CategoryID))
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound(fmt.Sprintf("produto %d não encontrado", p.ID))
	}
	return nil
}

// ApplyStockDelta incremento atómico en una sola sentencia.
func (r *ProductRepo) ApplyStockDelta(ctx context.Context, productID int64, delta int) (*entity.Product, error) {
	row := r.q.QueryRow(ctx, `
		WITH u AS (
			UPDATE products SET stock_quantity = stock_quantity + $2 WHERE id = $1
			RETURNING id, name, unit, price, stock_quantity, min_quantity, max_quantity, category_id
		)
		SELECT u.id, u.name, u.unit, u.price, u.stock_quantity, u.min_quantity, u.max_quantity, u.category_id, COALESCE(c.name, '')
		FROM u LEFT JOIN categories c ON c.id = u.category_id`,
		productID, delta,
	)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("apply stock delta: %w", err)
	}
	return p, nil
}

// AdjustPrices reajuste porcentual de todos los precios en una sola sentencia.
func (r *ProductRepo) AdjustPrices(ctx context.Context, percent decimal.Decimal) (int64, error) {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET price = round(price * (1 + $1::numeric / 100), 2)`, percent)
	if err != nil {
		return 0, fmt.Errorf("adjust prices: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// List lista productos según el filtro, ordenados por ID.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var (
		where []string
		args  []any
	)
	if f.CategoryID != 0 {
		args = append(args, f.CategoryID)
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if f.BelowMinimum {
		where = append(where, "p.stock_quantity < p.min_quantity")
	}
	if f.AboveMaximum {
		where = append(where, "p.stock_quantity > p.max_quantity")
	}
	query := productSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete elimina un producto por ID. Los movimientos quedan en el ledger.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Unit, &p.Price, &p.StockQuantity, &p.MinQuantity, &p.MaxQuantity, &p.CategoryID, &p.CategoryName); err != nil {
		return nil, err
	}
	return &p, nil
}
