package dto

// ItemRequest alta o edición de un artículo. Los campos numéricos llegan como
// enteros; el precio como string decimal ("12.50") para no perder precisión.
type ItemRequest struct {
	ItemNumber     string `json:"item_number"`
	Category       string `json:"category"`
	Name           string `json:"name"`
	PrevStock      int    `json:"prev_stock"`
	MinStockTarget int    `json:"min_stock_target"`
	UnitPrice      string `json:"unit_price"`
}

// CategoryRequest alta de una categoría.
type CategoryRequest struct {
	Name string `json:"name"`
}

// ImportRequest reemplazo masivo de la colección (importación).
type ImportRequest struct {
	Items      []ItemRequest `json:"items"`
	Categories []string      `json:"categories"`
}

// ReplenishmentSuggestionDTO artículo por debajo de su mínimo informativo,
// con la cantidad de pedido sugerida para alcanzarlo.
type ReplenishmentSuggestionDTO struct {
	Category     string `json:"category"`
	Name         string `json:"name"`
	PrevStock    int    `json:"prev_stock"`
	MinTarget    int    `json:"min_target"`
	SuggestedQty int    `json:"suggested_qty"`
}
