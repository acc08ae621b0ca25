package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/estoque-server/internal/application/usecase"
	"github.com/jhoicas/estoque-server/internal/domain"
	"github.com/jhoicas/estoque-server/internal/domain/entity"
)

// Columnas esperadas en la cabecera (orden libre). Las marcadas con * son obligatorias.
//
//	categoria*, embalagem, tamanho, produto*, unidade, preco, estoque, minimo, maximo
var requiredColumns = []string{"categoria", "produto"}

// Result resumen de una carga.
type Result struct {
	CategoriesCreated int
	ProductsCreated   int
	Skipped           int
}

// Loader carga catálogo desde CSV a través de los casos de uso.
type Loader struct {
	categories *usecase.CategoryUseCase
	products   *usecase.ProductUseCase
	latin1     bool
	comma      rune
	byName     map[string]int64 // nombre de categoría normalizado -> ID
}

// NewLoader construye el cargador.
func NewLoader(categories *usecase.CategoryUseCase, products *usecase.ProductUseCase, latin1 bool, comma rune) *Loader {
	if comma == 0 {
		comma = ','
	}
	return &Loader{categories: categories, products: products, latin1: latin1, comma: comma}
}

// Load lee r y crea categorías (deduplicadas por nombre, incluidas las ya existentes) y productos.
// Una fila inválida se omite; errores de almacenamiento abortan la carga.
func (l *Loader) Load(ctx context.Context, r io.Reader) (Result, error) {
	var res Result
	if err := l.loadExisting(ctx); err != nil {
		return res, err
	}

	if l.latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.Comma = l.comma
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return res, fmt.Errorf("CSV vacío: falta la cabecera")
		}
		return res, fmt.Errorf("leer cabecera: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return res, fmt.Errorf("columna obligatoria ausente: %s", c)
		}
	}

	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		catID, created, err := l.category(ctx, get("categoria"), get("embalagem"), get("tamanho"))
		if err != nil {
			if isSkippable(err) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("línea %d: %w", line, err)
		}
		if created {
			res.CategoriesCreated++
		}

		p, err := productFromRow(get, catID)
		if err != nil {
			res.Skipped++
			continue
		}
		if _, err := l.products.Create(ctx, p); err != nil {
			if isSkippable(err) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("línea %d: %w", line, err)
		}
		res.ProductsCreated++
	}
	return res, nil
}

func (l *Loader) loadExisting(ctx context.Context) error {
	l.byName = make(map[string]int64)
	list, err := l.categories.List(ctx)
	if err != nil {
		return fmt.Errorf("listar categorías: %w", err)
	}
	for _, c := range list {
		l.byName[normalizeName(c.Name)] = c.ID
	}
	return nil
}

func (l *Loader) category(ctx context.Context, name, packaging, size string) (int64, bool, error) {
	key := normalizeName(name)
	if id, ok := l.byName[key]; ok {
		return id, false, nil
	}
	c := entity.Category{Name: strings.TrimSpace(name)}
	c.Packaging, _ = entity.ParsePackaging(packaging)
	c.Size, _ = entity.ParseSize(size)
	id, err := l.categories.Create(ctx, c)
	if err != nil {
		return 0, false, err
	}
	l.byName[key] = id
	return id, true, nil
}

func productFromRow(get func(string) string, categoryID int64) (entity.Product, error) {
	p := entity.Product{Name: get("produto"), Unit: get("unidade"), CategoryID: categoryID}
	var err error
	if raw := get("preco"); raw != "" {
		// acepta coma decimal ("4,50")
		if p.Price, err = decimal.NewFromString(strings.ReplaceAll(raw, ",", ".")); err != nil {
			return p, err
		}
	}
	for _, f := range []struct {
		col string
		dst *int
	}{{"estoque", &p.StockQuantity}, {"minimo", &p.MinQuantity}, {"maximo", &p.MaxQuantity}} {
		raw := get(f.col)
		if raw == "" {
			continue
		}
		if *f.dst, err = strconv.Atoi(raw); err != nil {
			return p, err
		}
	}
	return p, nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// isSkippable errores de validación de una fila (no de almacenamiento).
func isSkippable(err error) bool {
	return domain.IsValidation(err) || errors.Is(err, domain.ErrNotFound)
}
