package entity

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// MovementType entrada o salida de stock.
type MovementType string

const (
	MovementEntry MovementType = "ENTRY"
	MovementExit  MovementType = "EXIT"
)

// ParseMovementType es estricto: solo ENTRY/EXIT y sus equivalentes ENTRADA/SAIDA.
func ParseMovementType(s string) (MovementType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ENTRY", "ENTRADA":
		return MovementEntry, nil
	case "EXIT", "SAIDA", "SAÍDA":
		return MovementExit, nil
	}
	return "", fmt.Errorf("tipo de movimentação inválido: %q", s)
}

// Límites de las columnas INTEGER de cantidades y stock.
const (
	MaxQuantity = math.MaxInt32
	MinStock    = math.MinInt32
)

// StockInRange indica si el saldo cabe en la columna de stock.
func StockInRange(stock int64) bool {
	return stock >= MinStock && stock <= MaxQuantity
}

// Delta devuelve el cambio de stock para la cantidad dada.
func (t MovementType) Delta(quantity int) int {
	if t == MovementExit {
		return -quantity
	}
	return quantity
}

// Movement entrada inmutable del ledger.
type Movement struct {
	ID        int64        `json:"id"`
	ProductID int64        `json:"produtoId"`
	Type      MovementType `json:"tipo"`
	Quantity  int          `json:"quantidade"`
	Timestamp time.Time    `json:"data"`
}
