package dto

// SmartAddRequest texto libre del operador ("2 cajas de cola a 20, agua...").
type SmartAddRequest struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// ExtractedItemDTO borrador de artículo propuesto por el extractor.
// El operador confirma antes de que toque la colección.
type ExtractedItemDTO struct {
	Name           string `json:"name"`
	PrevStock      int    `json:"prev_stock"`
	MinStockTarget int    `json:"min_stock_target"`
	UnitPrice      string `json:"unit_price"`
}
