package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/namistock-host/internal/application/dto"
	appsync "github.com/jhoicas/namistock-host/internal/application/sync"
)

// SyncHandler dispara el pull de ediciones del cliente (protegido).
type SyncHandler struct {
	uc *appsync.PullUseCase
}

// NewSyncHandler construye el handler.
func NewSyncHandler(uc *appsync.PullUseCase) *SyncHandler {
	return &SyncHandler{uc: uc}
}

// Pull absorbe las filas pendientes de la tabla remota. Cero aplicadas es un
// resultado válido, no un error; los fallos por categoría viajan en el cuerpo.
func (h *SyncHandler) Pull(c *fiber.Ctx) error {
	result, err := h.uc.PullUpdates(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(result)
}
