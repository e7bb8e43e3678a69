package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/namistock-host/internal/application/cycle"
	"github.com/jhoicas/namistock-host/internal/application/dto"
	"github.com/jhoicas/namistock-host/internal/domain"
)

// CycleHandler dispara el cierre del ciclo de conteo (protegido).
type CycleHandler struct {
	uc *cycle.CloseUseCase
}

// NewCycleHandler construye el handler.
func NewCycleHandler(uc *cycle.CloseUseCase) *CycleHandler {
	return &CycleHandler{uc: uc}
}

// Close cierra el ciclo actual. Un ciclo sin pedidos ni conteos responde 409
// como no-op explícito, no como error interno.
func (h *CycleHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseCycleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.CloseCycle(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrNoOpenCycle) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_OPEN_CYCLE", Message: "no hay pedidos ni conteos que cerrar"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(result)
}
