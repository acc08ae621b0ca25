package entity

import (
	"encoding/json"
	"strings"
)

// Packaging tipo de embalaje de una categoría. Vacío = sin definir.
type Packaging string

const (
	PackagingGlass   Packaging = "GLASS"
	PackagingPlastic Packaging = "PLASTIC"
	PackagingCan     Packaging = "CAN"
)

// Size tamaño de los productos de una categoría. Vacío = sin definir.
type Size string

const (
	SizeSmall  Size = "SMALL"
	SizeMedium Size = "MEDIUM"
	SizeLarge  Size = "LARGE"
)

var packagingAliases = map[string]Packaging{
	"GLASS":    PackagingGlass,
	"VIDRO":    PackagingGlass,
	"PLASTIC":  PackagingPlastic,
	"PLASTICO": PackagingPlastic,
	"PLÁSTICO": PackagingPlastic,
	"CAN":      PackagingCan,
	"LATA":     PackagingCan,
}

var sizeAliases = map[string]Size{
	"SMALL":   SizeSmall,
	"PEQUENO": SizeSmall,
	"MEDIUM":  SizeMedium,
	"MEDIO":   SizeMedium,
	"MÉDIO":   SizeMedium,
	"LARGE":   SizeLarge,
	"GRANDE":  SizeLarge,
}

// ParsePackaging acepta el nombre canónico o el portugués, sin distinguir mayúsculas.
// Devuelve ("", false) si el valor no se reconoce; "" de entrada es válido y significa sin definir.
func ParsePackaging(s string) (Packaging, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", true
	}
	p, ok := packagingAliases[s]
	return p, ok
}

// ParseSize acepta el nombre canónico o el portugués, sin distinguir mayúsculas.
func ParseSize(s string) (Size, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", true
	}
	z, ok := sizeAliases[s]
	return z, ok
}

// UnmarshalJSON es tolerante: valores desconocidos quedan sin definir.
func (p *Packaging) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*p = ""
	if s != nil {
		*p, _ = ParsePackaging(*s)
	}
	return nil
}

// MarshalJSON emite null cuando no está definido.
func (p Packaging) MarshalJSON() ([]byte, error) {
	if p == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

func (z *Size) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*z = ""
	if s != nil {
		*z, _ = ParseSize(*s)
	}
	return nil
}

func (z Size) MarshalJSON() ([]byte, error) {
	if z == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(z))
}

// Category agrupa productos; no puede eliminarse mientras algún producto la referencie.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nome"`
	Packaging Packaging `json:"embalagem"`
	Size      Size      `json:"tamanho"`
}
