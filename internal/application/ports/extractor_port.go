package ports

import (
	"context"

	"github.com/jhoicas/namistock-host/internal/application/dto"
)

// ItemExtractor define el puerto de salida hacia el colaborador externo de
// "alta inteligente": texto libre del operador a lista de borradores de
// artículo. Cualquier adaptador (Anthropic, mock) debe implementar esta
// interfaz; la aplicación solo conoce este contrato.
type ItemExtractor interface {
	// ExtractItems analiza el texto y devuelve los artículos detectados.
	// El contexto debe llevar un timeout para evitar bloqueos externos.
	ExtractItems(ctx context.Context, text string) ([]dto.ExtractedItemDTO, error)
}
