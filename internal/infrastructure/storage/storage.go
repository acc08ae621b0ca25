// Package storage selecciona el backend (PostgreSQL o memoria) según STORAGE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/estoque-server/internal/application/inventory"
	"github.com/jhoicas/estoque-server/internal/application/usecase"
	"github.com/jhoicas/estoque-server/internal/domain/repository"
	"github.com/jhoicas/estoque-server/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-server/internal/infrastructure/postgres"
	"github.com/jhoicas/estoque-server/pkg/config"
	"github.com/jhoicas/estoque-server/pkg/logger"
)

// Store repositorios + runners transaccionales de un backend.
type Store interface {
	inventory.TxRunner
	usecase.CatalogTxRunner
	Categories() repository.CategoryRepository
	Products() repository.ProductRepository
	Movements() repository.MovementRepository
	Reports() repository.ReportRepository
}

var (
	_ Store = (*memory.Store)(nil)
	_ Store = (*postgres.Store)(nil)
)

// Open abre el backend configurado. close libera el pool (no-op en memoria).
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		log.Warn().Msg("usando almacenamiento en memoria: los datos se pierden al reiniciar")
		return memory.New(), func() {}, nil
	case config.StorageDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoSchema {
			if err := postgres.EnsureSchema(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, err
			}
			log.Info().Msg("esquema verificado")
		}
		return postgres.NewStore(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("STORAGE_DRIVER desconocido: %q", cfg.Storage.Driver)
}
