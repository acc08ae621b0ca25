package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/estoque-server/internal/application/dto"
	"github.com/jhoicas/estoque-server/internal/interfaces/command"
	"github.com/jhoicas/estoque-server/pkg/logger"
)

// CommandDispatcher mismo despachador que usa el servidor de socket.
type CommandDispatcher interface {
	Dispatch(ctx context.Context, req command.Request) command.Response
}

// ReportSource genera reportes por nombre (acepta alias).
type ReportSource interface {
	ByName(ctx context.Context, name string) (*dto.ReportTable, error)
}

// ReportRenderer convierte un reporte en PDF.
type ReportRenderer interface {
	Generate(ctx context.Context, report *dto.ReportTable) ([]byte, error)
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Dispatcher CommandDispatcher
	Reports    ReportSource
	PDF        ReportRenderer
	Storage    string // driver activo, informado en /health
	Log        *logger.Logger
}

// NewApp construye la aplicación Fiber con middlewares y rutas.
func NewApp(appName string, deps RouterDeps) *fiber.App {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:               appName,
		ReadTimeout:           time.Second * 10,
		WriteTimeout:          time.Second * 10,
		IdleTimeout:           time.Second * 60,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(deps.Log))

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Storage: deps.Storage})
	})

	api := app.Group("/api")

	commandHandler := NewCommandHandler(deps.Dispatcher)
	api.Post("/commands/:name", commandHandler.Execute)

	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.Reports, deps.PDF)
	reports.Get("/:name", reportHandler.JSON)
	reports.Get("/:name/pdf", reportHandler.PDF)
}

// errorHandler errores no capturados por los handlers (404 de ruta, pánicos recuperados).
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
	}
	return c.Status(code).JSON(dto.ErrorResponse{Code: codeName(code), Message: err.Error()})
}
