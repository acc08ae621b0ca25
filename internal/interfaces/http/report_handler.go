package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-server/internal/application/dto"
	"github.com/jhoicas/estoque-server/internal/interfaces/command"
)

// ReportHandler expone los reportes en JSON y PDF.
type ReportHandler struct {
	reports ReportSource
	pdf     ReportRenderer
}

// NewReportHandler construye el handler.
func NewReportHandler(reports ReportSource, pdf ReportRenderer) *ReportHandler {
	return &ReportHandler{reports: reports, pdf: pdf}
}

// JSON GET /api/reports/:name
func (h *ReportHandler) JSON(c *fiber.Ctx) error {
	tbl, err := h.reports.ByName(c.UserContext(), c.Params("name"))
	if err != nil {
		return writeError(c, err, command.ErrorStatus(err))
	}
	return c.JSON(tbl)
}

// PDF GET /api/reports/:name/pdf
func (h *ReportHandler) PDF(c *fiber.Ctx) error {
	if h.pdf == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "PDF_DISABLED", Message: "geração de PDF indisponível"})
	}
	tbl, err := h.reports.ByName(c.UserContext(), c.Params("name"))
	if err != nil {
		return writeError(c, err, command.ErrorStatus(err))
	}
	doc, err := h.pdf.Generate(c.UserContext(), tbl)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF", Message: "falha ao gerar PDF"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="relatorio_%s.pdf"`, tbl.Name))
	return c.Send(doc)
}
