package entity

import (
	"strconv"
	"strings"
)

// Estados de una fila remota.
const (
	StatusClean   = "Clean"   // fila ya conciliada; se ignora en el pull
	StatusPending = "Pending" // el cliente escribió valores pendientes de absorber
)

// RemoteHeader columnas de la tabla remota, sensibles al orden.
var RemoteHeader = []string{"No", "Name", "Prev", "Current", "Order", "Price", "Status"}

// RemoteRow es la proyección de un artículo en la tabla remota de su categoría.
// No es el Item: los campos numéricos viajan como texto y pueden venir vacíos
// o con basura; el parseo es tolerante campo por campo.
type RemoteRow struct {
	No      string `json:"no"`
	Name    string `json:"name"`
	Prev    string `json:"prev"`
	Current string `json:"current"`
	Order   string `json:"order"`
	Price   string `json:"price"`
	Status  string `json:"status"`
}

// HasData indica si el cliente dejó algún valor no vacío y distinto de cero
// en Current u Order (intención implícita de reportar, aun sin marcar Pending).
func (r RemoteRow) HasData() bool {
	return hasNonZero(r.Current) || hasNonZero(r.Order)
}

// Pending indica si la fila fue marcada explícitamente por el cliente.
func (r RemoteRow) Pending() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), StatusPending)
}

// ParseCount parsea un campo numérico de la fila. ok es false si el campo
// está vacío o no es un entero; un campo malo nunca bloquea a los demás.
func ParseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func hasNonZero(s string) bool {
	n, ok := ParseCount(s)
	return ok && n != 0
}
