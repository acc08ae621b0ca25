package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/estoque-server/internal/application/inventory"
	"github.com/jhoicas/estoque-server/internal/application/report"
	"github.com/jhoicas/estoque-server/internal/application/usecase"
	infrapdf "github.com/jhoicas/estoque-server/internal/infrastructure/pdf"
	"github.com/jhoicas/estoque-server/internal/infrastructure/storage"
	"github.com/jhoicas/estoque-server/internal/interfaces/command"
	httpRouter "github.com/jhoicas/estoque-server/internal/interfaces/http"
	"github.com/jhoicas/estoque-server/internal/interfaces/socket"
	"github.com/jhoicas/estoque-server/pkg/config"
	"github.com/jhoicas/estoque-server/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer closeStore()

	categoryUC := usecase.NewCategoryUseCase(store.Categories(), store, log)
	productUC := usecase.NewProductUseCase(store.Products(), log)
	movementUC := inventory.NewRegisterMovementUseCase(store, store.Movements(), inventory.Options{
		AllowNegativeStock: cfg.Inventory.AllowNegativeStock,
		LenientTimestamps:  cfg.Inventory.LenientTimestamps,
	}, log)
	reportUC := report.NewReportUseCase(store.Reports(), log)
	dispatcher := command.NewDispatcher(categoryUC, productUC, movementUC, reportUC, log)

	socketDone := make(chan error, 1)
	srv := socket.NewServer(cfg.Socket, dispatcher, log)
	go func() { socketDone <- srv.ListenAndServe(ctx) }()

	var httpDone chan error
	app := httpRouter.NewApp(cfg.App.Name, httpRouter.RouterDeps{
		Dispatcher: dispatcher,
		Reports:    reportUC,
		PDF:        infrapdf.NewReportPDFGenerator(),
		Storage:    cfg.Storage.Driver,
		Log:        log,
	})
	if cfg.HTTP.Enabled {
		httpDone = make(chan error, 1)
		go func() {
			log.Info().Str("addr", cfg.HTTP.Addr()).Msg("gateway HTTP escuchando")
			httpDone <- app.Listen(cfg.HTTP.Addr())
		}()
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	case err := <-socketDone:
		// falla al escuchar: no tiene sentido seguir solo con HTTP
		log.Error().Err(err).Msg("servidor de socket finalizado")
		stop()
		socketDone <- err
	case err := <-httpDone:
		log.Error().Err(err).Msg("servidor HTTP finalizado")
		stop()
		httpDone = nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Socket.RequestTimeout+5*time.Second)
	defer cancel()

	if httpDone != nil {
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("apagado del servidor HTTP")
		}
	}

	select {
	case err := <-socketDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("apagado del servidor de socket")
			closeStore()
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		log.Warn().Msg("sesiones en curso no finalizaron a tiempo")
	}

	log.Info().Msg("aplicación detenida")
}
