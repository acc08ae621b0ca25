package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceRow fila de la lista de precios.
type PriceRow struct {
	Product  string
	Category string
	Price    decimal.Decimal
	Unit     string
}

// BalanceRow fila del balance físico/financiero. TotalValue = Quantity * Price.
type BalanceRow struct {
	Product    string
	Category   string
	Quantity   int
	Price      decimal.Decimal
	TotalValue decimal.Decimal
}

// ThresholdRow producto fuera de sus umbrales.
type ThresholdRow struct {
	Product     string
	Category    string
	Quantity    int
	MinQuantity int
	MaxQuantity int
}

// CategoryCountRow cantidad de productos por categoría (incluye ceros).
type CategoryCountRow struct {
	Category string
	Count    int
}

// MovedRow totales de entradas y salidas de un producto.
type MovedRow struct {
	Product  string
	Category string
	Entries  int
	Exits    int
	Total    int
}

// ReportRepository consultas de solo lectura para los reportes de estoque.
// Todas ordenan por nombre de producto o categoría salvo MostMoved (total desc).
type ReportRepository interface {
	PriceList(ctx context.Context) ([]PriceRow, error)
	Balance(ctx context.Context) ([]BalanceRow, error)
	BelowMinimum(ctx context.Context) ([]ThresholdRow, error)
	AboveMaximum(ctx context.Context) ([]ThresholdRow, error)
	QuantityByCategory(ctx context.Context) ([]CategoryCountRow, error)
	MostMoved(ctx context.Context) ([]MovedRow, error)
}
