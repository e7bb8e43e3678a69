package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/namistock-host/internal/application/auth"
	"github.com/jhoicas/namistock-host/internal/application/cycle"
	"github.com/jhoicas/namistock-host/internal/application/history"
	"github.com/jhoicas/namistock-host/internal/application/store"
	appsync "github.com/jhoicas/namistock-host/internal/application/sync"
	"github.com/jhoicas/namistock-host/internal/application/usecase"
	"github.com/jhoicas/namistock-host/internal/domain/repository"
	infraai "github.com/jhoicas/namistock-host/internal/infrastructure/ai"
	"github.com/jhoicas/namistock-host/internal/infrastructure/file"
	"github.com/jhoicas/namistock-host/internal/infrastructure/notify"
	"github.com/jhoicas/namistock-host/internal/infrastructure/postgres"
	"github.com/jhoicas/namistock-host/internal/infrastructure/sheets"
	httpRouter "github.com/jhoicas/namistock-host/internal/interfaces/http"
	"github.com/jhoicas/namistock-host/pkg/config"
	"github.com/jhoicas/namistock-host/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Almacén durable: Postgres si hay DATABASE_URL, archivos JSON si no.
	var (
		snapRepo    repository.SnapshotRepository
		historyRepo repository.HistoryRepository
		logRepo     repository.TransactionLogRepository
	)
	if cfg.DB.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DB.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema de PostgreSQL")
		}
		snapRepo = postgres.NewSnapshotRepository(pool)
		historyRepo = postgres.NewHistoryRepository(pool)
		logRepo = postgres.NewTransactionLogRepository(pool)
		log.Info().Msg("almacén durable: PostgreSQL")
	} else {
		snapRepo = file.NewSnapshotStore(cfg.Store.DataDir)
		historyRepo = file.NewHistoryStore(cfg.Store.DataDir)
		logRepo = file.NewTransactionLogStore(cfg.Store.DataDir)
		log.Info().Str("data_dir", cfg.Store.DataDir).Msg("almacén durable: archivos")
	}

	itemStore := store.New(snapRepo)
	if err := itemStore.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("cargar foto del inventario")
	}

	remote := sheets.NewWorkbookStore(cfg.Sheets.WorkbookPath)

	var notifier repository.Notifier
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notify.WebhookURL)
	}

	recorder := history.NewRecordUseCase(historyRepo)
	pullUC := appsync.NewPullUseCase(itemStore, remote, log)
	closeUC := cycle.NewCloseUseCase(itemStore, remote, logRepo, recorder, notifier, log)
	smartAddUC := usecase.NewSmartAddUseCase(infraai.NewAnthropicService(cfg.AI.APIKey, cfg.AI.Model))
	replenishmentUC := usecase.NewReplenishmentUseCase(itemStore)
	authUC := auth.NewUseCase(auth.Config{
		Operator:     cfg.Auth.Operator,
		PasswordHash: cfg.Auth.PasswordHash,
		JWTSecret:    cfg.JWT.Secret,
		JWTIssuer:    cfg.JWT.Issuer,
		ExpMinutes:   cfg.JWT.Expiration,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Store:         itemStore,
		Pull:          pullUC,
		Close:         closeUC,
		Recorder:      recorder,
		LogRepo:       logRepo,
		SmartAdd:      smartAddUC,
		Replenishment: replenishmentUC,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	// Última foto durable antes de salir.
	if err := itemStore.Save(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("guardar foto final")
	}

	log.Info().Msg("aplicación detenida")
}
