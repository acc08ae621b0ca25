package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/estoque-server/internal/domain"
)

func TestStorageError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("registrar movimiento: %w", domain.Storage("atualizar estoque", cause))

	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.False(t, domain.IsValidation(err))

	var se *domain.StorageError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "atualizar estoque", se.Step)
	assert.Contains(t, err.Error(), "atualizar estoque: connection reset")
}

func TestStorage_NilPassthrough(t *testing.T) {
	assert.NoError(t, domain.Storage("x", nil))
}

func TestHelpers(t *testing.T) {
	assert.ErrorIs(t, domain.Invalid("nome vazio"), domain.ErrInvalidInput)
	assert.ErrorIs(t, domain.NotFound("produto 9"), domain.ErrNotFound)
	assert.ErrorIs(t, domain.Conflict("categoria em uso"), domain.ErrConflict)
	assert.ErrorIs(t, domain.Protocol("json"), domain.ErrProtocol)
	assert.True(t, domain.IsValidation(domain.ErrInsufficientStock))
	assert.True(t, domain.IsValidation(domain.InsufficientStock("sem saldo")))
	assert.Equal(t, "nome vazio", domain.Invalid("nome vazio").Error())

	var de *domain.Error
	assert.True(t, errors.As(fmt.Errorf("ctx: %w", domain.Conflict("em uso")), &de))
	assert.Equal(t, domain.ErrConflict, de.Kind)
}
