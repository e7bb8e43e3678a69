package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/namistock-host/internal/application/dto"
	"github.com/jhoicas/namistock-host/internal/application/store"
)

// CategoryHandler maneja las peticiones HTTP de categorías (protegido).
type CategoryHandler struct {
	store *store.ItemStore
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(st *store.ItemStore) *CategoryHandler {
	return &CategoryHandler{store: st}
}

// List devuelve la lista ordenada de categorías.
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats := h.store.Categories()
	if cats == nil {
		cats = []string{}
	}
	return c.JSON(fiber.Map{"total": len(cats), "categories": cats})
}

// Create registra una categoría nueva (explícita, nunca inferida).
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.store.AddCategory(in.Name); err != nil {
		return mapStoreError(c, err, "categoría no encontrada")
	}
	if err := h.store.Save(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "categoría creada"})
}

// Delete elimina una categoría y, en cascada, sus artículos.
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.store.RemoveCategory(c.Params("name")); err != nil {
		return mapStoreError(c, err, "categoría no encontrada")
	}
	if err := h.store.Save(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "categoría eliminada"})
}
