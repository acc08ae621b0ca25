// Package pdf renderiza los reportes de estoque como documento A4.
//
// Layout de la página:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del reporte  │  Fecha de emisión            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: columnas del reporte (12 unidades de grilla)        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de filas                                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/estoque-server/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const gridSize = 12

// ── Generator ─────────────────────────────────────────────────────────────────

// ReportPDFGenerator convierte un dto.ReportTable en PDF usando Maroto v2.
type ReportPDFGenerator struct {
	now func() time.Time
}

// NewReportPDFGenerator construye el generador.
func NewReportPDFGenerator() *ReportPDFGenerator {
	return &ReportPDFGenerator{now: time.Now}
}

// Generate genera el PDF y devuelve sus bytes.
func (g *ReportPDFGenerator) Generate(ctx context.Context, report *dto.ReportTable) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if report == nil || len(report.Columns) == 0 {
		return nil, fmt.Errorf("pdf: relatório sem colunas")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		WithAuthor("estoque-server", true).
		Build()

	m := maroto.New(cfg)
	widths := columnWidths(len(report.Columns))
	aligns := columnAligns(report)

	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow(report.Columns, widths, aligns))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range tableRows(report, widths, aligns) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(len(report.Rows)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *ReportPDFGenerator) headerRow(report *dto.ReportTable) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(report.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("relatorio_"+report.Name, props.Text{
				Size: 8, Top: 8, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Emitido em: "+g.now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow(columns []string, widths []int, aligns []align.Type) core.Row {
	caser := cases.Title(language.BrazilianPortuguese) // Caser no es seguro entre goroutines
	cols := make([]core.Col, len(columns))
	for i, c := range columns {
		cols[i] = col.New(widths[i]).Add(text.New(columnTitle(caser, c), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: aligns[i],
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(cols...)
}

func tableRows(report *dto.ReportTable, widths []int, aligns []align.Type) []core.Row {
	if len(report.Rows) == 0 {
		return []core.Row{row.New(8).Add(col.New(gridSize).Add(
			text.New("Nenhum registro.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		))}
	}
	result := make([]core.Row, 0, len(report.Rows))
	for _, values := range report.Rows {
		cols := make([]core.Col, len(report.Columns))
		for i, c := range report.Columns {
			cols[i] = col.New(widths[i]).Add(text.New(values[c], props.Text{
				Size: 8, Align: aligns[i], Top: 1, Left: 1, Right: 1,
			}))
		}
		result = append(result, row.New(6).Add(cols...))
	}
	return result
}

func footerRow(total int) core.Row {
	return row.New(8).Add(col.New(gridSize).Add(
		text.New(fmt.Sprintf("Total de registros: %d", total), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// columnTitle: "valor_total" → "Valor Total".
func columnTitle(caser cases.Caser, column string) string {
	return caser.String(strings.ReplaceAll(column, "_", " "))
}

// columnWidths reparte la grilla de 12; el resto va a la primera columna (nombre del producto).
func columnWidths(n int) []int {
	if n > gridSize {
		n = gridSize
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = gridSize / n
	}
	widths[0] += gridSize % n
	return widths
}

// columnAligns: columnas numéricas a la derecha, texto a la izquierda.
func columnAligns(report *dto.ReportTable) []align.Type {
	aligns := make([]align.Type, len(report.Columns))
	for i, c := range report.Columns {
		aligns[i] = align.Left
		if len(report.Rows) == 0 {
			continue
		}
		if _, err := decimal.NewFromString(report.Rows[0][c]); err == nil {
			aligns[i] = align.Right
		}
	}
	return aligns
}
