package command_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-server/internal/application/inventory"
	"github.com/jhoicas/estoque-server/internal/application/report"
	"github.com/jhoicas/estoque-server/internal/application/usecase"
	"github.com/jhoicas/estoque-server/internal/domain"
	"github.com/jhoicas/estoque-server/internal/domain/entity"
	"github.com/jhoicas/estoque-server/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-server/internal/interfaces/command"
)

func newDispatcher() *command.Dispatcher {
	s := memory.New()
	return command.NewDispatcher(
		usecase.NewCategoryUseCase(s.Categories(), s, nil),
		usecase.NewProductUseCase(s.Products(), nil),
		inventory.NewRegisterMovementUseCase(s, s.Movements(), inventory.Options{AllowNegativeStock: true}, nil),
		report.NewReportUseCase(s.Reports(), nil),
		nil,
	)
}

func dispatch(t *testing.T, d *command.Dispatcher, line string) command.Response {
	t.Helper()
	req, err := command.ParseLine(line)
	require.NoError(t, err, line)
	return d.Dispatch(context.Background(), req)
}

func TestParseLine(t *testing.T) {
	req, err := command.ParseLine("  relatorio_qtd_cat  \r\n")
	require.NoError(t, err)
	assert.Equal(t, command.ReportQuantityByCategory, req.Command)
	assert.Nil(t, req.Payload)

	req, err = command.ParseLine(`EXCLUIR_CATEGORIA 3`)
	require.NoError(t, err)
	assert.JSONEq(t, `3`, string(req.Payload))

	_, err = command.ParseLine(`INSERIR_CATEGORIA {"nome":`)
	assert.ErrorIs(t, err, domain.ErrProtocol)

	_, err = command.ParseLine("   ")
	assert.ErrorIs(t, err, domain.ErrProtocol)
}

func TestDispatch_ColaScenario(t *testing.T) {
	d := newDispatcher()

	resp := dispatch(t, d, `INSERIR_CATEGORIA {"nome":"Beverages","embalagem":"LATA","tamanho":"MEDIO"}`)
	require.NoError(t, resp.Err)
	assert.Equal(t, "OK: Categoria inserida com sucesso! ID 1", resp.Status)

	resp = dispatch(t, d, `INSERIR_PRODUTO {"nome":"Cola","unidade":"UN","precoUnitario":5.50,"quantidadeEstoque":50,"quantidadeMinima":10,"quantidadeMaxima":200,"categoriaId":1}`)
	require.NoError(t, resp.Err)
	assert.Equal(t, "OK: Produto inserido com sucesso! ID 1", resp.Status)

	resp = dispatch(t, d, `INSERIR_MOVIMENTACAO {"produtoId":1,"tipo":"ENTRADA","quantidade":20}`)
	assert.Equal(t, "OK: Movimentação registrada com sucesso! Estoque atual: 70", resp.Status)
	resp = dispatch(t, d, `INSERIR_MOVIMENTACAO {"produtoId":1,"tipo":"EXIT","quantidade":5}`)
	assert.Equal(t, "OK: Movimentação registrada com sucesso! Estoque atual: 65", resp.Status)
	resp = dispatch(t, d, `INSERIR_MOVIMENTACAO {"produtoId":1,"tipo":"EXIT","quantidade":60}`)
	assert.Equal(t, "OK: Movimentação registrada com sucesso! Estoque atual: 5. Status: A quantidade do produto Cola está abaixo da quantidade mínima", resp.Status)

	resp = dispatch(t, d, "LISTAR_PRODUTOS")
	require.False(t, resp.IsStatus())
	out, err := resp.Encode()
	require.NoError(t, err)
	var products []entity.Product
	require.NoError(t, json.Unmarshal(out, &products))
	require.Len(t, products, 1)
	assert.Equal(t, 5, products[0].StockQuantity)
	assert.Equal(t, "Beverages", products[0].CategoryName)

	resp = dispatch(t, d, "RELATORIO_ABAIXO_MIN")
	rows := resp.Data.([]map[string]string)
	require.Len(t, rows, 1)
	assert.Equal(t, "5", rows[0]["quantidade_atual"])

	resp = dispatch(t, d, `LISTAR_MOVIMENTACOES {"tipo":"SAIDA"}`)
	movs := resp.Data.([]*entity.Movement)
	assert.Len(t, movs, 2)
}

func TestDispatch_CategoryDeleteConflict(t *testing.T) {
	d := newDispatcher()
	dispatch(t, d, `INSERIR_CATEGORIA {"nome":"Bebidas"}`)
	dispatch(t, d, `INSERIR_PRODUTO {"nome":"Cola","categoriaId":1}`)

	resp := dispatch(t, d, `EXCLUIR_CATEGORIA 1`)
	assert.ErrorIs(t, resp.Err, domain.ErrConflict)
	assert.Contains(t, resp.Status, "ERRO: Não é possível excluir a categoria")

	assert.Equal(t, "OK: Produto excluído com sucesso!", dispatch(t, d, `EXCLUIR_PRODUTO {"id":1}`).Status)
	assert.Equal(t, "OK: Categoria excluída com sucesso!", dispatch(t, d, `EXCLUIR_CATEGORIA "1"`).Status)

	resp = dispatch(t, d, "LISTAR_CATEGORIAS")
	out, _ := resp.Encode()
	assert.JSONEq(t, `[]`, string(out))
}

func TestDispatch_Errors(t *testing.T) {
	d := newDispatcher()

	tests := []struct {
		name, line, status string
	}{
		{"desconhecido", "APAGAR_TUDO", command.MsgUnknownCommand},
		{"nome vazio", `INSERIR_CATEGORIA {"nome":""}`, "ERRO: Nome da categoria não pode ser vazio."},
		{"sem payload", "INSERIR_CATEGORIA", "ERRO: requisição inválida: payload obrigatório"},
		{"id inválido", "EXCLUIR_CATEGORIA 0", "ERRO: ID inválido para exclusão."},
		{"quantidade zero", `INSERIR_MOVIMENTACAO {"produtoId":1,"tipo":"ENTRADA","quantidade":0}`, "ERRO: quantidade deve ser maior que zero"},
		{"produto inexistente", `INSERIR_MOVIMENTACAO {"produtoId":9,"tipo":"ENTRADA","quantidade":1}`, "ERRO: produto 9 não encontrado"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := dispatch(t, d, tt.line)
			assert.Error(t, resp.Err)
			assert.True(t, resp.IsStatus())
			assert.Equal(t, tt.status, resp.Status)
		})
	}
}

func TestDispatch_RejectsNonIntegerIDs(t *testing.T) {
	d := newDispatcher()
	require.NoError(t, dispatch(t, d, `INSERIR_CATEGORIA {"nome":"A"}`).Err)

	for _, line := range []string{
		"EXCLUIR_CATEGORIA 1.9",
		"EXCLUIR_CATEGORIA 1e30",
		`EXCLUIR_CATEGORIA {"id":1.9}`,
		`EXCLUIR_CATEGORIA {"id":1e30}`,
		`EXCLUIR_PRODUTO "abc"`,
	} {
		resp := dispatch(t, d, line)
		assert.ErrorIs(t, resp.Err, domain.ErrProtocol, line)
		assert.Equal(t, "ERRO: requisição inválida: id não numérico", resp.Status, line)
	}

	out, err := dispatch(t, d, "LISTAR_CATEGORIAS").Encode()
	require.NoError(t, err)
	var cats []entity.Category
	require.NoError(t, json.Unmarshal(out, &cats))
	assert.Len(t, cats, 1, "la categoria 1 sigue existiendo")

	for _, line := range []string{"EXCLUIR_CATEGORIA 1", `EXCLUIR_CATEGORIA "1"`, `EXCLUIR_CATEGORIA {"id":1}`} {
		assert.Equal(t, "OK: Categoria excluída com sucesso!", dispatch(t, d, line).Status, line)
	}
}

func TestDispatch_AdjustPrices(t *testing.T) {
	d := newDispatcher()
	require.NoError(t, dispatch(t, d, `INSERIR_CATEGORIA {"nome":"Bebidas"}`).Err)
	require.NoError(t, dispatch(t, d, `INSERIR_PRODUTO {"nome":"Cola","precoUnitario":"5.50","categoriaId":1}`).Err)

	resp := dispatch(t, d, "REAJUSTAR_PRECOS 10")
	require.NoError(t, resp.Err)
	assert.Equal(t, "OK: Preços reajustados em 10%! Produtos atualizados: 1", resp.Status)

	resp = dispatch(t, d, `reajustar_preços {"percentual":"10,0"}`)
	require.NoError(t, resp.Err)

	out, err := dispatch(t, d, "RELATORIO_LISTA_PRECOS").Encode()
	require.NoError(t, err)
	assert.Contains(t, string(out), "6.66")

	resp = dispatch(t, d, `REAJUSTAR_PRECOS {"percentual":0}`)
	assert.ErrorIs(t, resp.Err, domain.ErrInvalidInput)
	assert.Equal(t, "ERRO: O percentual deve ser maior que zero.", resp.Status)

	resp = dispatch(t, d, `REAJUSTAR_PRECOS "dez"`)
	assert.ErrorIs(t, resp.Err, domain.ErrProtocol)
}

func TestDispatch_RecoversPanics(t *testing.T) {
	d := command.NewDispatcher(nil, nil, nil, nil, nil)

	resp := d.Dispatch(context.Background(), command.Request{Command: command.InsertCategory, Payload: json.RawMessage(`{"nome":"x"}`)})
	assert.Equal(t, command.MsgInternal, resp.Status)
	assert.Error(t, resp.Err)
}

func TestDispatch_ReportsAreTextRows(t *testing.T) {
	d := newDispatcher()
	dispatch(t, d, `INSERIR_CATEGORIA {"nome":"Vazia"}`)

	resp := dispatch(t, d, "RELATORIO_QTD_POR_CATEGORIA")
	out, err := resp.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"categoria":"Vazia","quantidade":"0"}]`, string(out))

	resp = dispatch(t, d, "RELATORIO_MAIS_MOVIMENTADO")
	out, _ = resp.Encode()
	assert.JSONEq(t, `[]`, string(out))
}

func TestKnown(t *testing.T) {
	d := newDispatcher()
	assert.True(t, d.Known("relatorio_lista_prec"))
	assert.False(t, d.Known("FOO"))
}
