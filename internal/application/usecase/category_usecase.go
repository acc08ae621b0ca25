package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/estoque-server/internal/domain"
	"github.com/jhoicas/estoque-server/internal/domain/entity"
	"github.com/jhoicas/estoque-server/internal/domain/repository"
	"github.com/jhoicas/estoque-server/pkg/logger"
)

// CategoryUseCase casos de uso del catálogo de categorías.
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	txRunner CatalogTxRunner
	log      *logger.Logger
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, txRunner CatalogTxRunner, log *logger.Logger) *CategoryUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CategoryUseCase{repo: repo, txRunner: txRunner, log: log}
}

// Create valida el nombre y persiste la categoría; devuelve el ID asignado.
func (uc *CategoryUseCase) Create(ctx context.Context, in entity.Category) (int64, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return 0, domain.Invalid("Nome da categoria não pode ser vazio.")
	}
	in.ID = 0
	if err := uc.repo.Create(ctx, &in); err != nil {
		uc.log.Error().Err(err).Str("name", in.Name).Msg("falha ao inserir categoria")
		return 0, domain.Storage("inserir categoria", err)
	}
	return in.ID, nil
}

// GetByID devuelve (nil, nil) si no existe.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	if id <= 0 {
		return nil, domain.Invalid("ID inválido")
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("buscar categoria", err)
	}
	return c, nil
}

// Update sobrescribe nombre, embalaje y tamaño.
func (uc *CategoryUseCase) Update(ctx context.Context, in entity.Category) error {
	if in.ID <= 0 {
		return domain.Invalid("Categoria inválida para atualização.")
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return domain.Invalid("Nome da categoria não pode ser vazio.")
	}
	if err := uc.repo.Update(ctx, &in); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		uc.log.Error().Err(err).Int64("category_id", in.ID).Msg("falha ao atualizar categoria")
		return domain.Storage("atualizar categoria", err)
	}
	return nil
}

// Delete elimina la categoría si ningún producto la referencia. Conteo y borrado
// corren en la misma transacción. Una categoría inexistente no es error.
func (uc *CategoryUseCase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.Invalid("ID inválido para exclusão.")
	}
	err := uc.txRunner.RunCatalog(ctx, func(categories repository.CategoryRepository, _ repository.ProductRepository) error {
		c, err := categories.GetForUpdate(ctx, id)
		if err != nil {
			return domain.Storage("bloquear categoria", err)
		}
		if c == nil {
			return nil
		}
		n, err := categories.CountProducts(ctx, id)
		if err != nil {
			return domain.Storage("contar produtos", err)
		}
		if n > 0 {
			return domain.Conflict(fmt.Sprintf("Não é possível excluir a categoria: existem %d produtos associados.", n))
		}
		if err := categories.Delete(ctx, id); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return err
			}
			return domain.Storage("excluir categoria", err)
		}
		return nil
	})
	if err != nil && errors.Is(err, domain.ErrStorage) {
		uc.log.Error().Err(err).Int64("category_id", id).Msg("falha ao excluir categoria")
	}
	return err
}

// List nunca devuelve nil: ante una falla de almacenamiento devuelve lista vacía
// y el error para que el llamador lo registre.
func (uc *CategoryUseCase) List(ctx context.Context) ([]*entity.Category, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("falha ao listar categorias")
		return []*entity.Category{}, domain.Storage("listar categorias", err)
	}
	if list == nil {
		list = []*entity.Category{}
	}
	return list, nil
}
