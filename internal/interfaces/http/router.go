package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/namistock-host/internal/application/auth"
	"github.com/jhoicas/namistock-host/internal/application/cycle"
	"github.com/jhoicas/namistock-host/internal/application/history"
	"github.com/jhoicas/namistock-host/internal/application/store"
	appsync "github.com/jhoicas/namistock-host/internal/application/sync"
	"github.com/jhoicas/namistock-host/internal/application/usecase"
	"github.com/jhoicas/namistock-host/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Store         *store.ItemStore
	Pull          *appsync.PullUseCase
	Close         *cycle.CloseUseCase
	Recorder      *history.RecordUseCase
	LogRepo       repository.TransactionLogRepository
	SmartAdd      *usecase.SmartAddUseCase
	Replenishment *usecase.ReplenishmentUseCase
	AuthUC        *auth.UseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Categorías
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.Store)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Delete("/:name", categoryHandler.Delete)

	// Artículos
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.Store, deps.SmartAdd, deps.Replenishment)
	items.Get("/", itemHandler.List)
	items.Post("/", itemHandler.Create)
	items.Post("/import", itemHandler.Import)
	items.Post("/smart-add", itemHandler.SmartAdd)
	items.Get("/replenishment", itemHandler.Replenishment)
	items.Put("/:category/:name", itemHandler.Update)
	items.Delete("/:category/:name", itemHandler.Delete)

	// Sincronización con la tabla remota
	syncHandler := NewSyncHandler(deps.Pull)
	protected.Post("/sync/pull", syncHandler.Pull)

	// Cierre de ciclo
	cycleHandler := NewCycleHandler(deps.Close)
	protected.Post("/cycle/close", cycleHandler.Close)

	// Historial y log diario
	historyHandler := NewHistoryHandler(deps.Recorder, deps.LogRepo)
	protected.Get("/history", historyHandler.List)
	protected.Get("/history/:date", historyHandler.GetByDate)
	protected.Get("/logs/today", historyHandler.TodayLog)
}
