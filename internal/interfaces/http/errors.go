package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-server/internal/application/dto"
	"github.com/jhoicas/estoque-server/internal/domain"
)

// statusFor traduce errores de dominio a códigos HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, domain.ErrStorage):
		return fiber.StatusInternalServerError
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrProtocol):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func codeName(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "VALIDATION"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusUnprocessableEntity:
		return "INSUFFICIENT_STOCK"
	case fiber.StatusGatewayTimeout:
		return "TIMEOUT"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	}
	return "INTERNAL"
}

func writeError(c *fiber.Ctx, err error, message string) error {
	status := statusFor(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: codeName(status), Message: message})
}
