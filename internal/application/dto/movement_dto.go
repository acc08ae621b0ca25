package dto

// MovementRequest payload de INSERIR_MOVIMENTACAO.
type MovementRequest struct {
	ProductID int64  `json:"produtoId"`
	Type      string `json:"tipo"`
	Quantity  int    `json:"quantidade"`
	Timestamp string `json:"data,omitempty"`
}

// MovementFilterRequest payload opcional de LISTAR_MOVIMENTACOES.
type MovementFilterRequest struct {
	ProductID int64  `json:"produtoId,omitempty"`
	Type      string `json:"tipo,omitempty"`
	From      string `json:"de,omitempty"`
	To        string `json:"ate,omitempty"`
}

// ProductFilterRequest payload opcional de LISTAR_PRODUTOS.
type ProductFilterRequest struct {
	CategoryID   int64 `json:"categoriaId,omitempty"`
	BelowMinimum bool  `json:"abaixoMinimo,omitempty"`
	AboveMaximum bool  `json:"acimaMaximo,omitempty"`
}
