package entity

// Snapshot es el registro durable de la colección de artículos y la lista
// ordenada de categorías. Debe hacer round-trip exacto por guardar/cargar.
type Snapshot struct {
	Items      []Item   `json:"items"`
	Categories []string `json:"categories"`
}
