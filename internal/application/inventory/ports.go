package inventory

import (
	"context"

	"github.com/jhoicas/estoque-server/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de movimientos: si fn devuelve error nada se persiste.
// El error de fn se devuelve tal cual.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
	) error) error
}
