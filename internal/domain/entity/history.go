package entity

import "github.com/shopspring/decimal"

// CategoryTotals desglose de valores por categoría dentro de un registro diario.
type CategoryTotals struct {
	StockValue decimal.Decimal `json:"stock_value"`
	OrderValue decimal.Decimal `json:"order_value"`
}

// HistoryRecord es la foto agregada de un día calendario: valor total del
// stock, valor total pedido y el desglose por categoría. A lo sumo existe un
// registro por fecha; cerrar el ciclo dos veces el mismo día sobreescribe.
type HistoryRecord struct {
	Date            string                    `json:"date"` // formato DayFormat
	TotalStockValue decimal.Decimal           `json:"total_stock_value"`
	TotalOrderValue decimal.Decimal           `json:"total_order_value"`
	Details         map[string]CategoryTotals `json:"details"`
}
