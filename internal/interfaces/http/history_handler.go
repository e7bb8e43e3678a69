package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/namistock-host/internal/application/dto"
	"github.com/jhoicas/namistock-host/internal/application/history"
	"github.com/jhoicas/namistock-host/internal/domain/entity"
	"github.com/jhoicas/namistock-host/internal/domain/repository"
)

// HistoryHandler expone el historial diario y el log de recepciones de hoy
// (protegido).
type HistoryHandler struct {
	recorder *history.RecordUseCase
	logRepo  repository.TransactionLogRepository
}

// NewHistoryHandler construye el handler.
func NewHistoryHandler(recorder *history.RecordUseCase, logRepo repository.TransactionLogRepository) *HistoryHandler {
	return &HistoryHandler{recorder: recorder, logRepo: logRepo}
}

// List devuelve todos los registros diarios.
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	records, err := h.recorder.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if records == nil {
		records = []entity.HistoryRecord{}
	}
	return c.JSON(fiber.Map{"total": len(records), "records": records})
}

// GetByDate devuelve el registro de una fecha concreta (YYYY-MM-DD).
func (h *HistoryHandler) GetByDate(c *fiber.Ctx) error {
	date := c.Params("date")
	if _, err := time.Parse(entity.DayFormat, date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, formato YYYY-MM-DD"})
	}
	rec, err := h.recorder.GetByDate(c.Context(), date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if rec == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sin registro para esa fecha"})
	}
	return c.JSON(rec)
}

// TodayLog devuelve las recepciones registradas hoy.
func (h *HistoryHandler) TodayLog(c *fiber.Ctx) error {
	date := time.Now().Format(entity.DayFormat)
	entries, err := h.logRepo.LoadDay(c.Context(), date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if entries == nil {
		entries = []entity.TransactionLogEntry{}
	}
	return c.JSON(fiber.Map{"date": date, "total": len(entries), "logs": entries})
}
