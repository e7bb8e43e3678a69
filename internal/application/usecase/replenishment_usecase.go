package usecase

import (
	"github.com/jhoicas/namistock-host/internal/application/dto"
	"github.com/jhoicas/namistock-host/internal/application/store"
)

// ReplenishmentUseCase lista los artículos cuya base quedó por debajo de su
// mínimo informativo, con la cantidad sugerida para alcanzarlo. Es una guía
// para el operador; el pedido real lo escribe el cliente en la tabla remota.
type ReplenishmentUseCase struct {
	store *store.ItemStore
}

// NewReplenishmentUseCase construye el caso de uso.
func NewReplenishmentUseCase(st *store.ItemStore) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{store: st}
}

// Suggestions devuelve los artículos bajo mínimo en orden estable de la
// colección. category vacía considera todas.
func (uc *ReplenishmentUseCase) Suggestions(category string) []dto.ReplenishmentSuggestionDTO {
	items := uc.store.Items()
	out := []dto.ReplenishmentSuggestionDTO{}
	for _, it := range items {
		if category != "" && it.Category != category {
			continue
		}
		if it.MinStockTarget <= 0 || it.PrevStock >= it.MinStockTarget {
			continue
		}
		out = append(out, dto.ReplenishmentSuggestionDTO{
			Category:     it.Category,
			Name:         it.Name,
			PrevStock:    it.PrevStock,
			MinTarget:    it.MinStockTarget,
			SuggestedQty: it.MinStockTarget - it.PrevStock,
		})
	}
	return out
}
