package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/estoque-server/internal/application/inventory"
	"github.com/jhoicas/estoque-server/internal/application/usecase"
	"github.com/jhoicas/estoque-server/internal/domain"
	"github.com/jhoicas/estoque-server/internal/domain/entity"
	"github.com/jhoicas/estoque-server/internal/domain/repository"
	"github.com/jhoicas/estoque-server/internal/infrastructure/postgres"
	"github.com/jhoicas/estoque-server/pkg/config"
)

// newStore levanta PostgreSQL en un contenedor; requiere Docker.
func newStore(t *testing.T) *postgres.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("integración con PostgreSQL omitida en -short")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("estoque"),
		tcpostgres.WithUsername("estoque"),
		tcpostgres.WithPassword("estoque"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 20, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.EnsureSchema(ctx, pool))
	require.NoError(t, postgres.EnsureSchema(ctx, pool), "el esquema debe ser idempotente")
	return postgres.NewStore(pool)
}

func seed(t *testing.T, s *postgres.Store) (*entity.Category, *entity.Product) {
	t.Helper()
	ctx := context.Background()
	cat := &entity.Category{Name: "Bebidas", Packaging: entity.PackagingCan, Size: entity.SizeSmall}
	require.NoError(t, s.Categories().Create(ctx, cat))
	p := &entity.Product{
		Name: "Cola", Unit: "UN", Price: decimal.RequireFromString("4.50"),
		StockQuantity: 10, MinQuantity: 5, MaxQuantity: 50, CategoryID: cat.ID,
	}
	require.NoError(t, s.Products().Create(ctx, p))
	return cat, p
}

func TestPostgres_CatalogAndReports(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	cat, p := seed(t, s)

	got, err := s.Categories().GetByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PackagingCan, got.Packaging)

	missing, err := s.Products().GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	orphan := &entity.Product{Name: "X", Unit: "UN", CategoryID: 9999}
	err = s.Products().Create(ctx, orphan)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = s.Categories().Delete(ctx, cat.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	n, err := s.Categories().CountProducts(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	balance, err := s.Reports().Balance(ctx)
	require.NoError(t, err)
	require.Len(t, balance, 1)
	assert.Equal(t, "45.00", balance[0].TotalValue.StringFixed(2))

	got2, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bebidas", got2.CategoryName)

	adjusted, err := s.Products().AdjustPrices(ctx, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, adjusted)
	got3, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "4.95", got3.Price.StringFixed(2))
}

func TestPostgres_ConcurrentMovements(t *testing.T) {
	s := newStore(t)
	_, p := seed(t, s)

	uc := inventory.NewRegisterMovementUseCase(s, s.Movements(), inventory.Options{AllowNegativeStock: true}, nil)

	const workers = 40
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			typ := "ENTRY"
			if i%2 == 1 {
				typ = "EXIT"
			}
			_, err := uc.RecordMovement(context.Background(), inventory.MovementInput{ProductID: p.ID, Type: typ, Quantity: 3})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := s.Products().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.StockQuantity, "entradas y salidas iguales se anulan")

	movs, err := s.Movements().List(context.Background(), repository.MovementFilter{ProductID: p.ID})
	require.NoError(t, err)
	assert.Len(t, movs, workers)

	moved, err := s.Reports().MostMoved(context.Background())
	require.NoError(t, err)
	require.Len(t, moved, 1)
	assert.Equal(t, 60, moved[0].Entries)
	assert.Equal(t, 60, moved[0].Exits)
}

func TestPostgres_DeleteCategoryThroughUseCase(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	cat, p := seed(t, s)

	uc := usecase.NewCategoryUseCase(s.Categories(), s, nil)
	err := uc.Delete(ctx, cat.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, s.Products().Delete(ctx, p.ID))
	require.NoError(t, uc.Delete(ctx, cat.ID))

	gone, err := s.Categories().GetByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
