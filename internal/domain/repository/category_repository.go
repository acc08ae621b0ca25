package repository

import (
	"context"

	"github.com/jhoicas/estoque-server/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	// Create asigna el ID en category.
	Create(ctx context.Context, category *entity.Category) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	// GetForUpdate como GetByID, bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Category, error)
	// Update devuelve domain.ErrNotFound si la categoría no existe.
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context) ([]*entity.Category, error)
	// CountProducts cuenta los productos que referencian la categoría.
	CountProducts(ctx context.Context, categoryID int64) (int, error)
	Delete(ctx context.Context, id int64) error
}
