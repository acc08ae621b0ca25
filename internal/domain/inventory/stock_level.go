package inventory

import "fmt"

// StockLevel clasificación del stock frente a los umbrales del producto.
type StockLevel int

const (
	LevelNormal StockLevel = iota
	LevelAboveMaximum
	LevelBelowMinimum
)

func (l StockLevel) String() string {
	switch l {
	case LevelAboveMaximum:
		return "ACIMA_MAXIMO"
	case LevelBelowMinimum:
		return "ABAIXO_MINIMO"
	default:
		return "NORMAL"
	}
}

// ClassifyStock compara la cantidad con [min, max]. El máximo se evalúa primero,
// así un producto con min > max y cantidad fuera de ambos reporta "acima".
func ClassifyStock(quantity, minQuantity, maxQuantity int) StockLevel {
	switch {
	case quantity > maxQuantity:
		return LevelAboveMaximum
	case quantity < minQuantity:
		return LevelBelowMinimum
	default:
		return LevelNormal
	}
}

// StockWarning texto de aviso para el cliente; vacío si el nivel es normal.
func StockWarning(productName string, level StockLevel) string {
	switch level {
	case LevelAboveMaximum:
		return fmt.Sprintf("A quantidade do produto %s está acima da quantidade máxima", productName)
	case LevelBelowMinimum:
		return fmt.Sprintf("A quantidade do produto %s está abaixo da quantidade mínima", productName)
	default:
		return ""
	}
}
