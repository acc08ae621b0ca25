package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/estoque-server/internal/application/dto"
)

func balanceReport() *dto.ReportTable {
	return &dto.ReportTable{
		Name:    "balanco",
		Title:   "Balanço físico/financeiro",
		Columns: []string{"produto", "categoria", "quantidade", "preco", "valor_total"},
		Rows: []map[string]string{
			{"produto": "Cola", "categoria": "Bebidas", "quantidade": "10", "preco": "4.50", "valor_total": "45.00"},
		},
	}
}

func TestGenerate_ProducesPDF(t *testing.T) {
	out, err := NewReportPDFGenerator().Generate(context.Background(), balanceReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerate_EmptyReport(t *testing.T) {
	r := balanceReport()
	r.Rows = nil
	out, err := NewReportPDFGenerator().Generate(context.Background(), r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerate_Errors(t *testing.T) {
	g := NewReportPDFGenerator()

	_, err := g.Generate(context.Background(), &dto.ReportTable{Name: "x"})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Generate(ctx, balanceReport())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestColumnLayout(t *testing.T) {
	assert.Equal(t, []int{4, 2, 2, 2, 2}, columnWidths(5))
	assert.Equal(t, []int{6, 6}, columnWidths(2))
	assert.Equal(t, []int{3, 3, 3, 3}, columnWidths(4))

	aligns := columnAligns(balanceReport())
	assert.Equal(t, []align.Type{align.Left, align.Left, align.Right, align.Right, align.Right}, aligns)

	caser := cases.Title(language.BrazilianPortuguese)
	assert.Equal(t, "Valor Total", columnTitle(caser, "valor_total"))
	assert.Equal(t, "Total Movimentado", columnTitle(caser, "total_movimentado"))
}
