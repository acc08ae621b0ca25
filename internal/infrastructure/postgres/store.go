package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/estoque-server/internal/domain/repository"
)

// Store agrupa los repositorios sobre el pool y el TxRunner.
type Store struct {
	*TxRunner
	pool *pgxpool.Pool
}

// NewStore construye el almacén PostgreSQL.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{TxRunner: NewTxRunner(pool), pool: pool}
}

func (s *Store) Categories() repository.CategoryRepository { return NewCategoryRepository(s.pool) }
func (s *Store) Products() repository.ProductRepository   { return NewProductRepository(s.pool) }
func (s *Store) Movements() repository.MovementRepository { return NewMovementRepository(s.pool) }
func (s *Store) Reports() repository.ReportRepository     { return NewReportRepository(s.pool) }
