package entity

import "github.com/shopspring/decimal"

// Item representa un artículo del inventario, único por (Category, Name).
// ItemNumber es solo etiqueta de presentación, no identidad.
//
// StockRemaining conserva la semántica del sistema original: 0 significa
// "no contado en este ciclo". Un conteo real de cero no es representable;
// cambiarlo rompería la compatibilidad con la hoja compartida del cliente.
type Item struct {
	ItemNumber     string          `json:"item_number"`
	Category       string          `json:"category"`
	Name           string          `json:"name"`
	PrevStock      int             `json:"prev_stock"`      // base del ciclo anterior
	StockRemaining int             `json:"stock_remaining"` // conteo fresco; 0 = sin contar
	OrderQty       int             `json:"order_qty"`       // reposición solicitada este ciclo
	MinStockTarget int             `json:"min_stock_target"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
}

// Key devuelve la clave de identidad del artículo.
func (i Item) Key() ItemKey {
	return ItemKey{Category: i.Category, Name: i.Name}
}

// StockValue devuelve el valor de la base actual (PrevStock * UnitPrice).
func (i Item) StockValue() decimal.Decimal {
	return decimal.NewFromInt(int64(i.PrevStock)).Mul(i.UnitPrice)
}

// Counted indica si el artículo fue contado en el ciclo actual.
func (i Item) Counted() bool {
	return i.StockRemaining > 0
}

// ItemKey identifica un artículo dentro de la colección.
type ItemKey struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

// String devuelve la forma "categoría/nombre" usada en las peticiones HTTP.
func (k ItemKey) String() string {
	return k.Category + "/" + k.Name
}
