package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-server/internal/domain/entity"
)

func TestParsePackaging(t *testing.T) {
	tests := []struct {
		in   string
		want entity.Packaging
		ok   bool
	}{
		{"CAN", entity.PackagingCan, true},
		{"lata", entity.PackagingCan, true},
		{" Vidro ", entity.PackagingGlass, true},
		{"plástico", entity.PackagingPlastic, true},
		{"", "", true},
		{"papelao", "", false},
	}
	for _, tt := range tests {
		got, ok := entity.ParsePackaging(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestParseSize(t *testing.T) {
	got, ok := entity.ParseSize("medio")
	assert.True(t, ok)
	assert.Equal(t, entity.SizeMedium, got)

	got, ok = entity.ParseSize("XL")
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestParseMovementType(t *testing.T) {
	typ, err := entity.ParseMovementType("entrada")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementEntry, typ)

	typ, err = entity.ParseMovementType("EXIT")
	require.NoError(t, err)
	assert.Equal(t, -4, typ.Delta(4))
	assert.Equal(t, 4, entity.MovementEntry.Delta(4))

	_, err = entity.ParseMovementType("AJUSTE")
	assert.Error(t, err)
}

func TestCategoryJSON_UnknownEnumsBecomeUnset(t *testing.T) {
	var c entity.Category
	require.NoError(t, json.Unmarshal([]byte(`{"nome":"Bebidas","embalagem":"lata","tamanho":"gigante"}`), &c))
	assert.Equal(t, "Bebidas", c.Name)
	assert.Equal(t, entity.PackagingCan, c.Packaging)
	assert.Empty(t, c.Size)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":0,"nome":"Bebidas","embalagem":"CAN","tamanho":null}`, string(out))
}
