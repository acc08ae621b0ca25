package entity

import "github.com/shopspring/decimal"

// DefaultUnit unidad usada cuando el producto no informa una.
const DefaultUnit = "UN"

// Product representa un producto del almacén.
// StockQuantity solo lo modifica el registro de movimientos.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"nome"`
	Unit          string          `json:"unidade"`
	Price         decimal.Decimal `json:"precoUnitario"`
	StockQuantity int             `json:"quantidadeEstoque"`
	MinQuantity   int             `json:"quantidadeMinima"`
	MaxQuantity   int             `json:"quantidadeMaxima"`
	CategoryID    int64           `json:"categoriaId"`
	CategoryName  string          `json:"categoria,omitempty"` // solo lectura (join)
}
