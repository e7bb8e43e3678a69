package dto

// PullResultDTO resultado de absorber las ediciones del cliente desde la
// tabla remota. Los fallos por categoría no abortan a las demás; aquí solo
// se reportan.
type PullResultDTO struct {
	Applied          int      `json:"applied"`           // filas que escribieron algún campo
	SkippedRows      int      `json:"skipped_rows"`      // filas sin artículo local
	CategoriesRead   int      `json:"categories_read"`   // hojas leídas con éxito
	MissingSheets    []string `json:"missing_sheets"`    // categorías sin hoja remota
	FailedCategories []string `json:"failed_categories"` // fallos de transporte por categoría
}
