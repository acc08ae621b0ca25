package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/estoque-server/internal/application/usecase"
	"github.com/jhoicas/estoque-server/internal/domain/entity"
	"github.com/jhoicas/estoque-server/internal/domain/repository"
	"github.com/jhoicas/estoque-server/internal/infrastructure/memory"
)

func newLoader(s *memory.Store, latin1 bool, comma rune) *Loader {
	return NewLoader(
		usecase.NewCategoryUseCase(s.Categories(), s, nil),
		usecase.NewProductUseCase(s.Products(), nil),
		latin1, comma,
	)
}

const catalog = "\xEF\xBB\xBFcategoria,embalagem,tamanho,produto,unidade,preco,estoque,minimo,maximo\n" +
	"Bebidas,LATA,PEQUENO,Cola,un,\"4,50\",10,5,50\n" +
	" bebidas ,,,Guaraná,UN,3.20,0,1,10\n" +
	"Limpeza,PLASTICO,GRANDE,Detergente,,2,7,1,20\n" +
	"Limpeza,,,,UN,1,1,1,1\n" +
	"Limpeza,,,Sabão,UN,abc,1,1,1\n"

func TestLoad_DeduplicatesCategories(t *testing.T) {
	s := memory.New()
	res, err := newLoader(s, false, ',').Load(context.Background(), strings.NewReader(catalog))
	require.NoError(t, err)
	assert.Equal(t, Result{CategoriesCreated: 2, ProductsCreated: 3, Skipped: 2}, res)

	cats, err := s.Categories().List(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, entity.PackagingCan, cats[0].Packaging)
	assert.Equal(t, entity.SizeLarge, cats[1].Size)

	products, err := s.Products().List(context.Background(), repository.ProductFilter{CategoryID: cats[0].ID})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "4.50", products[0].Price.StringFixed(2))
	assert.Equal(t, "UN", products[0].Unit)
}

func TestLoad_ReusesExistingCategory(t *testing.T) {
	s := memory.New()
	existing := &entity.Category{Name: "Bebidas"}
	require.NoError(t, s.Categories().Create(context.Background(), existing))

	res, err := newLoader(s, false, ';').Load(context.Background(),
		strings.NewReader("produto;categoria\nCola;BEBIDAS\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.CategoriesCreated)
	assert.Equal(t, 1, res.ProductsCreated)

	p, err := s.Products().GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, p.CategoryID)
}

func TestLoad_Latin1(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String("categoria,produto\nAçúcar e Café,Café\n")
	require.NoError(t, err)

	s := memory.New()
	_, err = newLoader(s, true, ',').Load(context.Background(), bytes.NewReader([]byte(raw)))
	require.NoError(t, err)

	cats, err := s.Categories().List(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Açúcar e Café", cats[0].Name)
}

func TestLoad_HeaderErrors(t *testing.T) {
	s := memory.New()
	_, err := newLoader(s, false, ',').Load(context.Background(), strings.NewReader(""))
	assert.Error(t, err)

	_, err = newLoader(s, false, ',').Load(context.Background(), strings.NewReader("nome,preco\nx,1\n"))
	assert.ErrorContains(t, err, "categoria")
}
