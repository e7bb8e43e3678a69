package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/namistock-host/internal/application/dto"
	"github.com/jhoicas/namistock-host/internal/application/ports"
	"github.com/jhoicas/namistock-host/internal/domain"
)

// SmartAddUseCase orquesta el alta inteligente: texto libre del operador a
// borradores de artículo vía el extractor externo. Nunca escribe en la
// colección; el operador confirma los borradores por la ruta normal de alta.
type SmartAddUseCase struct {
	extractor ports.ItemExtractor
}

// NewSmartAddUseCase construye el caso de uso inyectando el puerto.
func NewSmartAddUseCase(extractor ports.ItemExtractor) *SmartAddUseCase {
	return &SmartAddUseCase{extractor: extractor}
}

// Suggest valida la entrada y delega al extractor.
// Envuelve el contexto con un timeout de 10 s: las llamadas a LLMs pueden
// demorar varios segundos y no deben bloquear los goroutines del servidor.
func (uc *SmartAddUseCase) Suggest(ctx context.Context, req dto.SmartAddRequest) ([]dto.ExtractedItemDTO, error) {
	if req.Text == "" {
		return nil, domain.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return uc.extractor.ExtractItems(ctx, req.Text)
}
