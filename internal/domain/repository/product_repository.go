package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-server/internal/domain/entity"
)

// ProductFilter filtros opcionales del listado de productos.
type ProductFilter struct {
	CategoryID   int64 // 0 = todas
	BelowMinimum bool
	AboveMaximum bool
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	// Create asigna el ID en product. Categoría inexistente -> domain.ErrNotFound.
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate bloquea el producto hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// Update actualiza solo los campos de catálogo; el stock no se toca.
	Update(ctx context.Context, product *entity.Product) error
	// ApplyStockDelta suma delta al stock en una sola operación y devuelve el producto resultante.
	// (nil, nil) si el producto no existe.
	ApplyStockDelta(ctx context.Context, productID int64, delta int) (*entity.Product, error)
	// AdjustPrices multiplica todos los precios por (1 + percent/100), redondeando a 2 decimales.
	// Devuelve la cantidad de productos actualizados.
	AdjustPrices(ctx context.Context, percent decimal.Decimal) (int64, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Delete(ctx context.Context, id int64) error
}
