package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-server/internal/application/dto"
	"github.com/jhoicas/estoque-server/internal/application/inventory"
	"github.com/jhoicas/estoque-server/internal/application/report"
	"github.com/jhoicas/estoque-server/internal/application/usecase"
	"github.com/jhoicas/estoque-server/internal/domain"
	"github.com/jhoicas/estoque-server/internal/domain/entity"
	"github.com/jhoicas/estoque-server/internal/domain/repository"
	"github.com/jhoicas/estoque-server/pkg/logger"
)

type handlerFunc func(ctx context.Context, payload json.RawMessage) Response

// Dispatcher enruta cada comando al caso de uso correspondiente.
type Dispatcher struct {
	categories *usecase.CategoryUseCase
	products   *usecase.ProductUseCase
	movements  *inventory.RegisterMovementUseCase
	reports    *report.ReportUseCase
	log        *logger.Logger
	routes     map[string]handlerFunc
}

// NewDispatcher construye el despachador con el catálogo completo de comandos.
func NewDispatcher(
	categories *usecase.CategoryUseCase,
	products *usecase.ProductUseCase,
	movements *inventory.RegisterMovementUseCase,
	reports *report.ReportUseCase,
	log *logger.Logger,
) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	d := &Dispatcher{categories: categories, products: products, movements: movements, reports: reports, log: log}
	d.routes = map[string]handlerFunc{
		InsertCategory: d.insertCategory,
		UpdateCategory: d.updateCategory,
		ListCategories: d.listCategories,
		DeleteCategory: d.deleteCategory,

		InsertProduct: d.insertProduct,
		UpdateProduct: d.updateProduct,
		ListProducts:  d.listProducts,
		DeleteProduct: d.deleteProduct,
		AdjustPrices:  d.adjustPrices,

		InsertMovement: d.insertMovement,
		ListMovements:  d.listMovements,

		ReportPriceList:          d.report(report.PriceList),
		ReportBalance:            d.report(report.Balance),
		ReportBelowMinimum:       d.report(report.BelowMinimum),
		ReportAboveMaximum:       d.report(report.AboveMaximum),
		ReportQuantityByCategory: d.report(report.QuantityByCategory),
		ReportMostMoved:          d.report(report.MostMoved),
	}
	return d
}

// Known indica si el comando (o su alias) existe.
func (d *Dispatcher) Known(name string) bool {
	_, ok := d.routes[Canonical(name)]
	return ok
}

// Dispatch ejecuta un comando. Nunca entra en pánico: un pánico del handler
// se convierte en respuesta de error.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (resp Response) {
	log := logger.FromContext(ctx, d.log)
	name := Canonical(req.Command)
	start := time.Now()

	h, ok := d.routes[name]
	if !ok {
		log.Warn().Str("command", req.Command).Msg("comando desconhecido")
		return Response{Status: MsgUnknownCommand, Err: domain.Protocol("comando desconhecido")}
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("command", name).Interface("panic", r).Msg("pânico ao processar comando")
			resp = Response{Status: MsgInternal, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	resp = h(ctx, req.Payload)

	ev := log.Info()
	if resp.Err != nil {
		ev = log.Warn().Err(resp.Err)
		if errors.Is(resp.Err, domain.ErrStorage) {
			ev = log.Error().Err(resp.Err)
		}
	}
	ev.Str("command", name).Dur("elapsed", time.Since(start)).Bool("collection", !resp.IsStatus()).Msg("comando processado")
	return resp
}

// ── Categorias ──────────────────────────────────────────────────────────────

func (d *Dispatcher) insertCategory(ctx context.Context, payload json.RawMessage) Response {
	var c entity.Category
	if err := decode(payload, &c); err != nil {
		return failure(err)
	}
	id, err := d.categories.Create(ctx, c)
	if err != nil {
		return failure(err)
	}
	return ok(fmt.Sprintf("Categoria inserida com sucesso! ID %d", id))
}

func (d *Dispatcher) updateCategory(ctx context.Context, payload json.RawMessage) Response {
	var c entity.Category
	if err := decode(payload, &c); err != nil {
		return failure(err)
	}
	if err := d.categories.Update(ctx, c); err != nil {
		return failure(err)
	}
	return ok("Categoria atualizada com sucesso!")
}

func (d *Dispatcher) listCategories(ctx context.Context, _ json.RawMessage) Response {
	// Falla de almacenamiento -> lista vacía (ya registrada por el caso de uso).
	list, _ := d.categories.List(ctx)
	return collection(list)
}

func (d *Dispatcher) deleteCategory(ctx context.Context, payload json.RawMessage) Response {
	id, err := decodeID(payload)
	if err != nil {
		return failure(err)
	}
	if err := d.categories.Delete(ctx, id); err != nil {
		return failure(err)
	}
	return ok("Categoria excluída com sucesso!")
}

// ── Produtos ────────────────────────────────────────────────────────────────

func (d *Dispatcher) insertProduct(ctx context.Context, payload json.RawMessage) Response {
	var p entity.Product
	if err := decode(payload, &p); err != nil {
		return failure(err)
	}
	id, err := d.products.Create(ctx, p)
	if err != nil {
		return failure(err)
	}
	return ok(fmt.Sprintf("Produto inserido com sucesso! ID %d", id))
}

func (d *Dispatcher) updateProduct(ctx context.Context, payload json.RawMessage) Response {
	var p entity.Product
	if err := decode(payload, &p); err != nil {
		return failure(err)
	}
	if err := d.products.Update(ctx, p); err != nil {
		return failure(err)
	}
	return ok("Produto atualizado com sucesso!")
}

func (d *Dispatcher) listProducts(ctx context.Context, payload json.RawMessage) Response {
	var f dto.ProductFilterRequest
	if len(payload) > 0 {
		if err := decode(payload, &f); err != nil {
			return failure(err)
		}
	}
	list, _ := d.products.List(ctx, repository.ProductFilter{
		CategoryID:   f.CategoryID,
		BelowMinimum: f.BelowMinimum,
		AboveMaximum: f.AboveMaximum,
	})
	return collection(list)
}

func (d *Dispatcher) deleteProduct(ctx context.Context, payload json.RawMessage) Response {
	id, err := decodeID(payload)
	if err != nil {
		return failure(err)
	}
	if err := d.products.Delete(ctx, id); err != nil {
		return failure(err)
	}
	return ok("Produto excluído com sucesso!")
}

func (d *Dispatcher) adjustPrices(ctx context.Context, payload json.RawMessage) Response {
	percent, err := decodePercent(payload)
	if err != nil {
		return failure(err)
	}
	n, err := d.products.AdjustPrices(ctx, percent)
	if err != nil {
		return failure(err)
	}
	return ok(fmt.Sprintf("Preços reajustados em %s%%! Produtos atualizados: %d", percent.String(), n))
}

// ── Movimentações ───────────────────────────────────────────────────────────

func (d *Dispatcher) insertMovement(ctx context.Context, payload json.RawMessage) Response {
	var in dto.MovementRequest
	if err := decode(payload, &in); err != nil {
		return failure(err)
	}
	res, err := d.movements.RecordMovement(ctx, inventory.MovementInput{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Timestamp: in.Timestamp,
	})
	if err != nil {
		return failure(err)
	}
	msg := fmt.Sprintf("Movimentação registrada com sucesso! Estoque atual: %d", res.Product.StockQuantity)
	if res.Warning != "" {
		msg += ". Status: " + res.Warning
	}
	return ok(msg)
}

func (d *Dispatcher) listMovements(ctx context.Context, payload json.RawMessage) Response {
	var in dto.MovementFilterRequest
	if len(payload) > 0 {
		if err := decode(payload, &in); err != nil {
			return failure(err)
		}
	}
	filter := repository.MovementFilter{ProductID: in.ProductID}
	if in.Type != "" {
		typ, err := entity.ParseMovementType(in.Type)
		if err != nil {
			return failure(domain.Invalid(err.Error()))
		}
		filter.Type = typ
	}
	for _, b := range []struct {
		raw string
		dst **time.Time
	}{{in.From, &filter.From}, {in.To, &filter.To}} {
		if b.raw == "" {
			continue
		}
		ts, valid := inventory.ParseTimestamp(b.raw)
		if !valid {
			return failure(domain.Invalid(fmt.Sprintf("data inválida: %q", b.raw)))
		}
		*b.dst = &ts
	}
	list, _ := d.movements.ListMovements(ctx, filter)
	return collection(list)
}

// ── Relatórios ──────────────────────────────────────────────────────────────

func (d *Dispatcher) report(name string) handlerFunc {
	return func(ctx context.Context, _ json.RawMessage) Response {
		// Falla cerrada: ante error la tabla viene vacía y el error ya fue registrado.
		tbl, _ := d.reports.ByName(ctx, name)
		if tbl == nil {
			return collection([]map[string]string{})
		}
		return collection(tbl.Rows)
	}
}

// ── payload ─────────────────────────────────────────────────────────────────

func decode(payload json.RawMessage, dst any) error {
	if len(bytes.TrimSpace(payload)) == 0 || bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		return domain.Protocol("payload obrigatório")
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return domain.Protocol(err.Error())
	}
	return nil
}

// decodeID acepta un entero JSON, un string numérico o {"id": n}.
// Números fraccionarios o fuera de rango de int64 se rechazan.
func decodeID(payload json.RawMessage) (int64, error) {
	if len(bytes.TrimSpace(payload)) == 0 || bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		return 0, domain.Protocol("payload obrigatório")
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return 0, domain.Protocol(err.Error())
	}
	switch v := raw.(type) {
	case json.Number:
		return parseID(v.String())
	case string:
		return parseID(v)
	case map[string]any:
		if n, ok := v["id"].(json.Number); ok {
			return parseID(n.String())
		}
	}
	return 0, domain.Protocol("id ausente")
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, domain.Protocol("id não numérico")
	}
	return id, nil
}

// decodePercent acepta un número JSON, un string ("10,5" incluido) o {"percentual": n}.
func decodePercent(payload json.RawMessage) (decimal.Decimal, error) {
	if len(bytes.TrimSpace(payload)) == 0 || bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		return decimal.Zero, domain.Protocol("payload obrigatório")
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return decimal.Zero, domain.Protocol(err.Error())
	}
	var s string
	switch v := raw.(type) {
	case json.Number:
		s = v.String()
	case string:
		s = strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
	case map[string]any:
		switch p := v["percentual"].(type) {
		case json.Number:
			s = p.String()
		case string:
			s = strings.ReplaceAll(strings.TrimSpace(p), ",", ".")
		default:
			return decimal.Zero, domain.Protocol("percentual ausente")
		}
	default:
		return decimal.Zero, domain.Protocol("percentual ausente")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.Protocol("percentual não numérico")
	}
	return d, nil
}
