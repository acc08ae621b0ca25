package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-server/internal/domain"
	"github.com/jhoicas/estoque-server/internal/domain/entity"
	"github.com/jhoicas/estoque-server/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, name, packaging, size`

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO categories (name, packaging, size) VALUES ($1, $2, $3) RETURNING id`,
		c.Name, nullable(string(c.Packaging)), nullable(string(c.Size)),
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	return r.get(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila (SELECT FOR UPDATE); los INSERT de productos que la referencian esperan.
func (r *CategoryRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Category, error) {
	return r.get(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR UPDATE`, id)
}

func (r *CategoryRepo) get(ctx context.Context, query string, id int64) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE categories SET name = $2, packaging = $3, size = $4 WHERE id = $1`,
		c.ID, c.Name, nullable(string(c.Packaging)), nullable(string(c.Size)),
	)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound(fmt.Sprintf("categoria %d não encontrada", c.ID))
	}
	return nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CategoryRepo) CountProducts(ctx context.Context, categoryID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// Delete: la FK RESTRICT de products se traduce a ErrConflict.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflict("existem produtos associados à categoria")
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// scanCategory: embalaje/tamaño desconocidos en la base quedan sin definir.
func scanCategory(row pgx.Row) (*entity.Category, error) {
	var (
		c               entity.Category
		packaging, size *string
	)
	if err := row.Scan(&c.ID, &c.Name, &packaging, &size); err != nil {
		return nil, err
	}
	if packaging != nil {
		c.Packaging, _ = entity.ParsePackaging(*packaging)
	}
	if size != nil {
		c.Size, _ = entity.ParseSize(*size)
	}
	return &c, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
