package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/estoque-server/internal/domain"
	"github.com/jhoicas/estoque-server/internal/domain/entity"
	"github.com/jhoicas/estoque-server/internal/domain/inventory"
	"github.com/jhoicas/estoque-server/internal/domain/repository"
	"github.com/jhoicas/estoque-server/pkg/logger"
)

// Formatos aceptados para la fecha informada por el cliente.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Options reglas configurables del motor.
type Options struct {
	AllowNegativeStock bool
	LenientTimestamps  bool
	Now                func() time.Time // nil -> time.Now
}

// RegisterMovementUseCase registra movimientos de estoque de forma transaccional:
// bloquea el producto (SELECT FOR UPDATE), agrega el movimiento al ledger y aplica el delta.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	movRepo  repository.MovementRepository
	opts     Options
	log      *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	opts Options,
	log *logger.Logger,
) *RegisterMovementUseCase {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterMovementUseCase{txRunner: txRunner, movRepo: movRepo, opts: opts, log: log}
}

// MovementInput entrada para registrar un movimiento. Timestamp vacío = ahora.
type MovementInput struct {
	ProductID int64
	Type      string
	Quantity  int
	Timestamp string
}

// MovementResult resultado de un movimiento aplicado.
type MovementResult struct {
	Movement *entity.Movement
	Product  *entity.Product
	Level    inventory.StockLevel
	Warning  string // vacío si el stock quedó dentro de [min, max]
}

// RecordMovement valida, persiste el movimiento y el nuevo stock en una sola transacción
// y clasifica el stock resultante.
func (uc *RegisterMovementUseCase) RecordMovement(ctx context.Context, input MovementInput) (*MovementResult, error) {
	if input.ProductID <= 0 {
		return nil, domain.Invalid("ID de produto inválido")
	}
	if input.Quantity <= 0 {
		return nil, domain.Invalid("quantidade deve ser maior que zero")
	}
	if input.Quantity > entity.MaxQuantity {
		return nil, domain.Invalid(fmt.Sprintf("quantidade deve ser no máximo %d", entity.MaxQuantity))
	}
	typ, err := entity.ParseMovementType(input.Type)
	if err != nil {
		return nil, domain.Invalid(err.Error())
	}
	ts, err := uc.resolveTimestamp(input.Timestamp)
	if err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		ProductID: input.ProductID,
		Type:      typ,
		Quantity:  input.Quantity,
		Timestamp: ts,
	}
	var updated *entity.Product

	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.MovementRepository) error {
		// Bloquea la fila del producto para serializar movimientos concurrentes
		product, err := productRepo.GetForUpdate(ctx, input.ProductID)
		if err != nil {
			return domain.Storage("buscar produto", err)
		}
		if product == nil {
			return domain.NotFound(fmt.Sprintf("produto %d não encontrado", input.ProductID))
		}
		delta := typ.Delta(input.Quantity)
		next := int64(product.StockQuantity) + int64(delta)
		if !entity.StockInRange(next) {
			return domain.Invalid(fmt.Sprintf("estoque resultante fora do limite para o produto %s", product.Name))
		}
		if !uc.opts.AllowNegativeStock && next < 0 {
			return domain.InsufficientStock(fmt.Sprintf("Estoque insuficiente: produto %s tem %d unidades.", product.Name, product.StockQuantity))
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return domain.Storage("registrar movimentação", err)
		}
		updated, err = productRepo.ApplyStockDelta(ctx, input.ProductID, delta)
		if err != nil {
			return domain.Storage("atualizar estoque", err)
		}
		if updated == nil {
			return domain.NotFound(fmt.Sprintf("produto %d não encontrado", input.ProductID))
		}
		return nil
	})
	if err != nil {
		if !domain.IsValidation(err) && !errors.Is(err, domain.ErrNotFound) {
			uc.log.Error().Err(err).Int64("product_id", input.ProductID).Str("type", string(typ)).Msg("falha ao registrar movimentação")
		}
		return nil, err
	}

	level := inventory.ClassifyStock(updated.StockQuantity, updated.MinQuantity, updated.MaxQuantity)
	res := &MovementResult{
		Movement: mov,
		Product:  updated,
		Level:    level,
		Warning:  inventory.StockWarning(updated.Name, level),
	}
	uc.log.Info().
		Int64("movement_id", mov.ID).
		Int64("product_id", updated.ID).
		Str("type", string(typ)).
		Int("quantity", mov.Quantity).
		Int("stock", updated.StockQuantity).
		Stringer("level", level).
		Msg("movimentação registrada")
	return res, nil
}

// ListMovements devuelve el ledger filtrado, ordenado por fecha.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	list, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		uc.log.Error().Err(err).Msg("falha ao listar movimentações")
		return []*entity.Movement{}, domain.Storage("listar movimentações", err)
	}
	if list == nil {
		list = []*entity.Movement{}
	}
	return list, nil
}

func (uc *RegisterMovementUseCase) resolveTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uc.opts.Now(), nil
	}
	if ts, ok := ParseTimestamp(raw); ok {
		return ts, nil
	}
	if uc.opts.LenientTimestamps {
		uc.log.Warn().Str("timestamp", raw).Msg("data inválida; usando horário atual")
		return uc.opts.Now(), nil
	}
	return time.Time{}, domain.Invalid(fmt.Sprintf("data inválida: %q", raw))
}

// ParseTimestamp prueba los formatos aceptados; fechas sin zona se interpretan en hora local.
func ParseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
