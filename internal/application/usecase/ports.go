package usecase

import (
	"context"

	"github.com/jhoicas/estoque-server/internal/domain/repository"
)

// CatalogTxRunner ejecuta fn con el catálogo serializado: bloqueo de la categoría,
// conteo de productos y borrado ocurren en una sola transacción.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		categoryRepo repository.CategoryRepository,
		productRepo repository.ProductRepository,
	) error) error
}
