package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-server/internal/domain"
	"github.com/jhoicas/estoque-server/internal/domain/entity"
	"github.com/jhoicas/estoque-server/internal/domain/repository"
	"github.com/jhoicas/estoque-server/pkg/logger"
)

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia vía movimientos.
type ProductUseCase struct {
	repo repository.ProductRepository
	log  *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, log *logger.Logger) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{repo: repo, log: log}
}

// Create crea un producto; el stock informado se toma como saldo inicial.
func (uc *ProductUseCase) Create(ctx context.Context, in entity.Product) (int64, error) {
	if err := validateProduct(&in); err != nil {
		return 0, err
	}
	in.ID = 0
	if err := uc.repo.Create(ctx, &in); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, err
		}
		uc.log.Error().Err(err).Str("name", in.Name).Msg("falha ao inserir produto")
		return 0, domain.Storage("inserir produto", err)
	}
	return in.ID, nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	if id <= 0 {
		return nil, domain.Invalid("ID inválido")
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("buscar produto", err)
	}
	return p, nil
}

// Update actualiza los datos de catálogo. No modifica el stock.
func (uc *ProductUseCase) Update(ctx context.Context, in entity.Product) error {
	if in.ID <= 0 {
		return domain.Invalid("Produto inválido para atualização.")
	}
	if err := validateProduct(&in); err != nil {
		return err
	}
	if err := uc.repo.Update(ctx, &in); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		uc.log.Error().Err(err).Int64("product_id", in.ID).Msg("falha ao atualizar produto")
		return domain.Storage("atualizar produto", err)
	}
	return nil
}

// Delete elimina el producto sin verificar el historial de movimientos.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.Invalid("ID inválido para exclusão.")
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.log.Error().Err(err).Int64("product_id", id).Msg("falha ao excluir produto")
		return domain.Storage("excluir produto", err)
	}
	return nil
}

// AdjustPrices reajusta el precio de todos los productos en percent por ciento (> 0).
func (uc *ProductUseCase) AdjustPrices(ctx context.Context, percent decimal.Decimal) (int64, error) {
	if !percent.IsPositive() {
		return 0, domain.Invalid("O percentual deve ser maior que zero.")
	}
	n, err := uc.repo.AdjustPrices(ctx, percent)
	if err != nil {
		uc.log.Error().Err(err).Str("percent", percent.String()).Msg("falha ao reajustar preços")
		return 0, domain.Storage("reajustar preços", err)
	}
	uc.log.Info().Str("percent", percent.String()).Int64("products", n).Msg("preços reajustados")
	return n, nil
}

// List devuelve lista vacía y el error ante fallas de almacenamiento.
func (uc *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		uc.log.Error().Err(err).Msg("falha ao listar produtos")
		return []*entity.Product{}, domain.Storage("listar produtos", err)
	}
	if list == nil {
		list = []*entity.Product{}
	}
	return list, nil
}

func validateProduct(p *entity.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return domain.Invalid("Nome do produto não pode ser vazio.")
	}
	if p.CategoryID <= 0 {
		return domain.Invalid("Categoria do produto é obrigatória.")
	}
	if p.Price.IsNegative() {
		return domain.Invalid("Preço não pode ser negativo.")
	}
	if p.MinQuantity < 0 || p.MaxQuantity < 0 {
		return domain.Invalid("Quantidades mínima e máxima não podem ser negativas.")
	}
	if p.MinQuantity > entity.MaxQuantity || p.MaxQuantity > entity.MaxQuantity || !entity.StockInRange(int64(p.StockQuantity)) {
		return domain.Invalid("Quantidade fora do limite permitido.")
	}
	p.Unit = strings.ToUpper(strings.TrimSpace(p.Unit))
	if p.Unit == "" {
		p.Unit = entity.DefaultUnit
	}
	return nil
}
