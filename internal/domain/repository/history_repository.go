package repository

import (
	"context"

	"github.com/jhoicas/namistock-host/internal/domain/entity"
)

// HistoryRepository guarda los registros agregados por día calendario.
// Upsert reemplaza el registro existente de la misma fecha (nunca duplica).
type HistoryRepository interface {
	Upsert(ctx context.Context, rec entity.HistoryRecord) error
	GetByDate(ctx context.Context, date string) (*entity.HistoryRecord, error)
	List(ctx context.Context) ([]entity.HistoryRecord, error)
}
