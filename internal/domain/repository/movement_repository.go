package repository

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-server/internal/domain/entity"
)

// MovementFilter filtros opcionales del ledger. Valores cero = sin filtro.
type MovementFilter struct {
	ProductID int64
	Type      entity.MovementType
	From      *time.Time
	To        *time.Time
}

// MovementRepository ledger append-only de movimientos.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// List ordena por timestamp y luego por ID.
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
}
