package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-server/internal/application/usecase"
	"github.com/jhoicas/estoque-server/internal/domain"
	"github.com/jhoicas/estoque-server/internal/domain/entity"
	"github.com/jhoicas/estoque-server/internal/domain/repository"
	"github.com/jhoicas/estoque-server/internal/infrastructure/memory"
)

func newCatalog() (*memory.Store, *usecase.CategoryUseCase, *usecase.ProductUseCase) {
	s := memory.New()
	return s, usecase.NewCategoryUseCase(s.Categories(), s, nil), usecase.NewProductUseCase(s.Products(), nil)
}

func TestCategory_CreateThenList(t *testing.T) {
	_, cats, _ := newCatalog()
	ctx := context.Background()

	for _, name := range []string{"Bebidas", "Limpeza", "  Frios  "} {
		id, err := cats.Create(ctx, entity.Category{Name: name})
		require.NoError(t, err)
		assert.Positive(t, id)
	}

	list, err := cats.List(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, c := range list {
		assert.Positive(t, c.ID)
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Bebidas", "Limpeza", "Frios"}, names)
}

func TestCategory_CreateBlankName(t *testing.T) {
	_, cats, _ := newCatalog()
	_, err := cats.Create(context.Background(), entity.Category{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Nome da categoria não pode ser vazio.", err.Error())
}

func TestCategory_Update(t *testing.T) {
	_, cats, _ := newCatalog()
	ctx := context.Background()
	id, err := cats.Create(ctx, entity.Category{Name: "Bebidas"})
	require.NoError(t, err)

	assert.ErrorIs(t, cats.Update(ctx, entity.Category{ID: 0, Name: "x"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, cats.Update(ctx, entity.Category{ID: 999, Name: "x"}), domain.ErrNotFound)

	require.NoError(t, cats.Update(ctx, entity.Category{ID: id, Name: "Bebidas frias", Packaging: entity.PackagingGlass}))
	got, err := cats.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Bebidas frias", got.Name)
	assert.Equal(t, entity.PackagingGlass, got.Packaging)
}

func TestCategory_DeleteConflictIffReferenced(t *testing.T) {
	_, cats, prods := newCatalog()
	ctx := context.Background()
	catID, err := cats.Create(ctx, entity.Category{Name: "Bebidas"})
	require.NoError(t, err)
	prodID, err := prods.Create(ctx, entity.Product{Name: "Cola", CategoryID: catID, Price: decimal.NewFromInt(5)})
	require.NoError(t, err)

	err = cats.Delete(ctx, catID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "existem 1 produtos associados")

	require.NoError(t, prods.Delete(ctx, prodID))
	require.NoError(t, cats.Delete(ctx, catID))

	list, err := cats.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCategory_DeleteInvalidID(t *testing.T) {
	_, cats, _ := newCatalog()
	err := cats.Delete(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "ID inválido para exclusão.", err.Error())
}

type failingCategories struct {
	repository.CategoryRepository
}

func (failingCategories) List(context.Context) ([]*entity.Category, error) {
	return nil, errors.New("connection refused")
}

func TestCategory_ListFailsSoft(t *testing.T) {
	s := memory.New()
	cats := usecase.NewCategoryUseCase(failingCategories{s.Categories()}, s, nil)

	list, err := cats.List(context.Background())
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.ErrorIs(t, err, domain.ErrStorage)
}
