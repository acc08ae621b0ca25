package report

import (
	"context"
	"strconv"
	"strings"

	"github.com/jhoicas/estoque-server/internal/application/dto"
	"github.com/jhoicas/estoque-server/internal/domain"
	"github.com/jhoicas/estoque-server/internal/domain/repository"
	"github.com/jhoicas/estoque-server/pkg/logger"
)

// Nombres cortos de los reportes.
const (
	PriceList          = "lista_precos"
	Balance            = "balanco"
	BelowMinimum       = "abaixo_minimo"
	AboveMaximum       = "acima_maximo"
	QuantityByCategory = "qtd_por_categoria"
	MostMoved          = "mais_movimentado"
)

// Names lista de reportes disponibles en orden de presentación.
var Names = []string{PriceList, Balance, BelowMinimum, AboveMaximum, QuantityByCategory, MostMoved}

var aliases = map[string]string{
	"lista_prec": PriceList,
	"abaixo_min": BelowMinimum,
	"acima_max":  AboveMaximum,
	"qtd_cat":    QuantityByCategory,
	"mais_mov":   MostMoved,
}

// ReportUseCase reportes de solo lectura. Ante una falla de almacenamiento devuelve
// una tabla vacía, registra el error y lo devuelve al llamador.
type ReportUseCase struct {
	repo repository.ReportRepository
	log  *logger.Logger
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(repo repository.ReportRepository, log *logger.Logger) *ReportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportUseCase{repo: repo, log: log}
}

// Normalize resuelve "RELATORIO_LISTA_PREC", "lista-precos", etc. al nombre corto.
func Normalize(name string) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "relatorio_")
	n = strings.ReplaceAll(n, "-", "_")
	if a, ok := aliases[n]; ok {
		return a, true
	}
	for _, known := range Names {
		if n == known {
			return n, true
		}
	}
	return "", false
}

// ByName ejecuta el reporte indicado; nombre desconocido -> domain.ErrNotFound.
func (uc *ReportUseCase) ByName(ctx context.Context, name string) (*dto.ReportTable, error) {
	n, ok := Normalize(name)
	if !ok {
		return nil, domain.NotFound("relatório desconhecido: " + name)
	}
	switch n {
	case PriceList:
		return uc.PriceList(ctx)
	case Balance:
		return uc.Balance(ctx)
	case BelowMinimum:
		return uc.BelowMinimum(ctx)
	case AboveMaximum:
		return uc.AboveMaximum(ctx)
	case QuantityByCategory:
		return uc.QuantityByCategory(ctx)
	default:
		return uc.MostMoved(ctx)
	}
}

// PriceList lista de precios por producto.
func (uc *ReportUseCase) PriceList(ctx context.Context) (*dto.ReportTable, error) {
	t := newTable(PriceList, "Lista de preços", "produto", "categoria", "preco", "tipo_unidade")
	rows, err := uc.repo.PriceList(ctx)
	if err != nil {
		return uc.fail(t, err)
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, map[string]string{
			"produto":      r.Product,
			"categoria":    r.Category,
			"preco":        r.Price.StringFixed(2),
			"tipo_unidade": r.Unit,
		})
	}
	return t, nil
}

// Balance balance físico/financiero: valor_total = quantidade * preco.
func (uc *ReportUseCase) Balance(ctx context.Context) (*dto.ReportTable, error) {
	t := newTable(Balance, "Balanço físico/financeiro", "produto", "categoria", "quantidade", "preco", "valor_total")
	rows, err := uc.repo.Balance(ctx)
	if err != nil {
		return uc.fail(t, err)
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, map[string]string{
			"produto":     r.Product,
			"categoria":   r.Category,
			"quantidade":  strconv.Itoa(r.Quantity),
			"preco":       r.Price.StringFixed(2),
			"valor_total": r.TotalValue.StringFixed(2),
		})
	}
	return t, nil
}

// BelowMinimum productos con stock menor al mínimo.
func (uc *ReportUseCase) BelowMinimum(ctx context.Context) (*dto.ReportTable, error) {
	t := newTable(BelowMinimum, "Produtos abaixo do mínimo", "produto", "categoria", "quantidade_atual", "quantidade_minima")
	rows, err := uc.repo.BelowMinimum(ctx)
	if err != nil {
		return uc.fail(t, err)
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, map[string]string{
			"produto":           r.Product,
			"categoria":         r.Category,
			"quantidade_atual":  strconv.Itoa(r.Quantity),
			"quantidade_minima": strconv.Itoa(r.MinQuantity),
		})
	}
	return t, nil
}

// AboveMaximum productos con stock mayor al máximo.
func (uc *ReportUseCase) AboveMaximum(ctx context.Context) (*dto.ReportTable, error) {
	t := newTable(AboveMaximum, "Produtos acima do máximo", "produto", "categoria", "quantidade_atual", "quantidade_maxima")
	rows, err := uc.repo.AboveMaximum(ctx)
	if err != nil {
		return uc.fail(t, err)
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, map[string]string{
			"produto":           r.Product,
			"categoria":         r.Category,
			"quantidade_atual":  strconv.Itoa(r.Quantity),
			"quantidade_maxima": strconv.Itoa(r.MaxQuantity),
		})
	}
	return t, nil
}

// QuantityByCategory cantidad de productos por categoría, con ceros.
func (uc *ReportUseCase) QuantityByCategory(ctx context.Context) (*dto.ReportTable, error) {
	t := newTable(QuantityByCategory, "Quantidade por categoria", "categoria", "quantidade")
	rows, err := uc.repo.QuantityByCategory(ctx)
	if err != nil {
		return uc.fail(t, err)
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, map[string]string{
			"categoria":  r.Category,
			"quantidade": strconv.Itoa(r.Count),
		})
	}
	return t, nil
}

// MostMoved productos ordenados por total movimentado (desc).
func (uc *ReportUseCase) MostMoved(ctx context.Context) (*dto.ReportTable, error) {
	t := newTable(MostMoved, "Produtos mais movimentados", "produto", "categoria", "entradas", "saidas", "total_movimentado")
	rows, err := uc.repo.MostMoved(ctx)
	if err != nil {
		return uc.fail(t, err)
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, map[string]string{
			"produto":           r.Product,
			"categoria":         r.Category,
			"entradas":          strconv.Itoa(r.Entries),
			"saidas":            strconv.Itoa(r.Exits),
			"total_movimentado": strconv.Itoa(r.Total),
		})
	}
	return t, nil
}

func (uc *ReportUseCase) fail(t *dto.ReportTable, err error) (*dto.ReportTable, error) {
	uc.log.Error().Err(err).Str("report", t.Name).Msg("falha ao gerar relatório")
	return t, domain.Storage("gerar relatório "+t.Name, err)
}

func newTable(name, title string, columns ...string) *dto.ReportTable {
	return &dto.ReportTable{Name: name, Title: title, Columns: columns, Rows: make([]map[string]string, 0)}
}
