package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionLogEntry registra la recepción de un artículo pedido al cerrar
// el ciclo. El log es append-only y vive solo durante el día calendario.
type TransactionLogEntry struct {
	ID          string          `json:"id"`
	Time        time.Time       `json:"time"`
	Category    string          `json:"category"`
	Name        string          `json:"name"`
	OrderedQty  int             `json:"ordered_qty"`
	ReceivedQty int             `json:"received_qty"`
	Value       decimal.Decimal `json:"value"` // ReceivedQty * precio unitario
}

// DayFormat formato de fecha usado por el log diario y el historial.
const DayFormat = "2006-01-02"
