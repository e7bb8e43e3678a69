package dto

// CloseCycleRequest cierre de ciclo. Receipts mapea "categoría/nombre" a la
// cantidad realmente recibida, como texto del operador; ausente o no numérica
// se asume la cantidad pedida.
type CloseCycleRequest struct {
	Receipts map[string]string `json:"receipts"`
}

// CloseResultDTO resultado publicado de forma atómica al cerrar el ciclo.
// Los valores monetarios viajan como string decimal.
type CloseResultDTO struct {
	Date              string   `json:"date"`
	TotalPaid         string   `json:"total_paid"`
	TotalUsageValue   string   `json:"total_usage_value"`
	TotalStockValue   string   `json:"total_stock_value"`
	ItemsUpdated      int      `json:"items_updated"`
	RepublishFailures []string `json:"republish_failures,omitempty"`
}
