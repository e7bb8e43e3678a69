package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/namistock-host/internal/application/dto"
	"github.com/jhoicas/namistock-host/internal/application/store"
	"github.com/jhoicas/namistock-host/internal/application/usecase"
	"github.com/jhoicas/namistock-host/internal/domain"
	"github.com/jhoicas/namistock-host/internal/domain/entity"
)

// ItemHandler maneja las peticiones HTTP de artículos (protegido).
type ItemHandler struct {
	store         *store.ItemStore
	smartAdd      *usecase.SmartAddUseCase
	replenishment *usecase.ReplenishmentUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(st *store.ItemStore, smartAdd *usecase.SmartAddUseCase, repl *usecase.ReplenishmentUseCase) *ItemHandler {
	return &ItemHandler{store: st, smartAdd: smartAdd, replenishment: repl}
}

// List devuelve los artículos, opcionalmente filtrados por ?category=.
func (h *ItemHandler) List(c *fiber.Ctx) error {
	category := c.Query("category")
	var items []entity.Item
	if category != "" {
		items = h.store.ItemsByCategory(category)
	} else {
		items = h.store.Items()
	}
	if items == nil {
		items = []entity.Item{}
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// Create agrega un artículo a una categoría existente.
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.ItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := itemFromRequest(in)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if err := h.store.AddItem(item); err != nil {
		return mapStoreError(c, err, "la categoría no existe")
	}
	if err := h.store.Save(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "artículo creado"})
}

// Update edita los campos maestros de un artículo (no toca los contadores de ciclo).
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	key := entity.ItemKey{Category: c.Params("category"), Name: c.Params("name")}
	var in dto.ItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	upd, err := itemFromRequest(in)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if err := h.store.UpdateItem(key, upd); err != nil {
		return mapStoreError(c, err, "artículo no encontrado")
	}
	if err := h.store.Save(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "artículo actualizado"})
}

// Delete elimina un artículo.
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	key := entity.ItemKey{Category: c.Params("category"), Name: c.Params("name")}
	if err := h.store.RemoveItem(key); err != nil {
		return mapStoreError(c, err, "artículo no encontrado")
	}
	if err := h.store.Save(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "artículo eliminado"})
}

// Import reemplaza la colección completa (importación masiva).
func (h *ItemHandler) Import(c *fiber.Ctx) error {
	var in dto.ImportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]entity.Item, 0, len(in.Items))
	for _, req := range in.Items {
		item, err := itemFromRequest(req)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		items = append(items, item)
	}
	if err := h.store.ReplaceAll(items, in.Categories); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if err := h.store.Save(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "colección importada", "total": len(items)})
}

// SmartAdd propone borradores de artículo desde texto libre del operador.
// No escribe en la colección: el operador confirma por la ruta de alta.
func (h *ItemHandler) SmartAdd(c *fiber.Ctx) error {
	var in dto.SmartAddRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	drafts, err := h.smartAdd.Suggest(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "text es obligatorio"})
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "EXTRACTOR", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(drafts), "items": drafts})
}

// Replenishment lista los artículos por debajo de su mínimo informativo.
func (h *ItemHandler) Replenishment(c *fiber.Ctx) error {
	list := h.replenishment.Suggestions(c.Query("category"))
	return c.JSON(fiber.Map{"total": len(list), "suggestions": list})
}

// itemFromRequest traduce el DTO al artículo de dominio, validando el precio.
func itemFromRequest(in dto.ItemRequest) (entity.Item, error) {
	price := decimal.Zero
	if in.UnitPrice != "" {
		var err error
		price, err = decimal.NewFromString(in.UnitPrice)
		if err != nil || price.IsNegative() {
			return entity.Item{}, domain.ErrInvalidInput
		}
	}
	if in.PrevStock < 0 || in.MinStockTarget < 0 {
		return entity.Item{}, domain.ErrInvalidInput
	}
	return entity.Item{
		ItemNumber:     in.ItemNumber,
		Category:       in.Category,
		Name:           in.Name,
		PrevStock:      in.PrevStock,
		MinStockTarget: in.MinStockTarget,
		UnitPrice:      price,
	}, nil
}

// mapStoreError traduce los errores de dominio del store a códigos HTTP.
func mapStoreError(c *fiber.Ctx, err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: notFoundMsg})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
