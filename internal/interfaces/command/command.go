// Package command define el catálogo de comandos del servidor de estoque y su despacho,
// compartido por el transporte de socket y el gateway HTTP.
package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/estoque-server/internal/domain"
)

// Catálogo de comandos.
const (
	InsertCategory = "INSERIR_CATEGORIA"
	UpdateCategory = "ATUALIZAR_CATEGORIA"
	ListCategories = "LISTAR_CATEGORIAS"
	DeleteCategory = "EXCLUIR_CATEGORIA"

	InsertProduct = "INSERIR_PRODUTO"
	UpdateProduct = "ALTERAR_PRODUTO"
	ListProducts  = "LISTAR_PRODUTOS"
	DeleteProduct = "EXCLUIR_PRODUTO"
	AdjustPrices  = "REAJUSTAR_PRECOS"

	InsertMovement = "INSERIR_MOVIMENTACAO"
	ListMovements  = "LISTAR_MOVIMENTACOES"

	ReportPriceList          = "RELATORIO_LISTA_PRECOS"
	ReportBalance            = "RELATORIO_BALANCO"
	ReportBelowMinimum       = "RELATORIO_ABAIXO_MINIMO"
	ReportAboveMaximum       = "RELATORIO_ACIMA_MAXIMO"
	ReportQuantityByCategory = "RELATORIO_QTD_POR_CATEGORIA"
	ReportMostMoved          = "RELATORIO_MAIS_MOVIMENTADO"
)

// Alias cortos aceptados por clientes antiguos.
var aliases = map[string]string{
	"REAJUSTAR_PREÇOS":     AdjustPrices,
	"RELATORIO_LISTA_PREC": ReportPriceList,
	"RELATORIO_ABAIXO_MIN": ReportBelowMinimum,
	"RELATORIO_ACIMA_MAX":  ReportAboveMaximum,
	"RELATORIO_QTD_CAT":    ReportQuantityByCategory,
	"RELATORIO_MAIS_MOV":   ReportMostMoved,
}

// Canonical resuelve alias y mayúsculas.
func Canonical(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	if c, ok := aliases[n]; ok {
		return c
	}
	return n
}

// Mensajes de estado fijos.
const (
	MsgUnknownCommand = "ERRO: comando desconhecido"
	MsgServerBusy     = "ERRO: servidor ocupado, tente novamente"
	MsgTimeout        = "ERRO: tempo limite excedido"
	MsgInternal       = "ERRO: falha interna ao processar comando"
)

// Request un comando con payload JSON opcional.
type Request struct {
	Command string
	Payload json.RawMessage
}

// ParseLine interpreta "COMANDO[ JSON]". Un payload presente debe ser JSON válido.
func ParseLine(line string) (Request, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Request{}, domain.Protocol("comando vazio")
	}
	name, rest, _ := strings.Cut(line, " ")
	req := Request{Command: Canonical(name)}
	rest = strings.TrimSpace(rest)
	if rest != "" {
		if !json.Valid([]byte(rest)) {
			return req, domain.Protocol("payload não é JSON válido")
		}
		req.Payload = json.RawMessage(rest)
	}
	return req, nil
}

// Response resultado de un comando: texto de estado o colección (Data).
type Response struct {
	Status string
	Data   any
	Err    error
}

// IsStatus indica si la respuesta es un texto de estado y no una colección.
func (r Response) IsStatus() bool { return r.Data == nil }

// Encode serializa la respuesta en una sola línea (sin salto final).
func (r Response) Encode() ([]byte, error) {
	if r.IsStatus() {
		return []byte(strings.ReplaceAll(r.Status, "\n", " ")), nil
	}
	return json.Marshal(r.Data)
}

func ok(msg string) Response { return Response{Status: "OK: " + msg} }

func collection(data any) Response { return Response{Data: data} }

// failure traduce un error de dominio al texto "ERRO: ...".
func failure(err error) Response {
	return Response{Status: ErrorStatus(err), Err: err}
}

// ErrorStatus texto visible para el cliente.
func ErrorStatus(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return MsgTimeout
	}
	var se *domain.StorageError
	if errors.As(err, &se) {
		return fmt.Sprintf("ERRO: falha ao %s.", se.Step)
	}
	var de *domain.Error
	if errors.As(err, &de) {
		if errors.Is(err, domain.ErrProtocol) {
			return "ERRO: requisição inválida: " + de.Msg
		}
		return "ERRO: " + de.Msg
	}
	if errors.Is(err, domain.ErrProtocol) {
		return "ERRO: requisição inválida"
	}
	return MsgInternal
}
