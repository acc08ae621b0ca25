package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-server/internal/application/dto"
	"github.com/jhoicas/estoque-server/internal/interfaces/command"
)

// CommandHandler expone el catálogo de comandos del socket vía HTTP.
type CommandHandler struct {
	dispatcher CommandDispatcher
}

// NewCommandHandler construye el handler.
func NewCommandHandler(dispatcher CommandDispatcher) *CommandHandler {
	return &CommandHandler{dispatcher: dispatcher}
}

// StatusResponse cuerpo de un comando que responde con texto de estado.
type StatusResponse struct {
	Status string `json:"status"`
}

// Execute POST /api/commands/:name — el cuerpo es el payload JSON del comando.
// Colecciones se devuelven como arreglo JSON; el resto como {"status": "..."}.
func (h *CommandHandler) Execute(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_COMMAND", Message: "comando é obrigatório"})
	}
	// fasthttp reutiliza el buffer del cuerpo
	body := bytes.Clone(bytes.TrimSpace(c.Body()))

	resp := h.dispatcher.Dispatch(c.UserContext(), command.Request{Command: name, Payload: body})
	if resp.Status == command.MsgUnknownCommand {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_COMMAND", Message: resp.Status})
	}
	if resp.Err != nil {
		return writeError(c, resp.Err, resp.Status)
	}
	if resp.IsStatus() {
		return c.JSON(StatusResponse{Status: resp.Status})
	}
	return c.JSON(resp.Data)
}
