package history

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/namistock-host/internal/domain/entity"
	"github.com/jhoicas/namistock-host/internal/domain/repository"
)

// RecordUseCase produce la foto agregada de un día: valor total de stock,
// valor total pedido y desglose por categoría. Función pura de sus entradas
// más el upsert en el repositorio de historial.
type RecordUseCase struct {
	repo repository.HistoryRepository
}

// NewRecordUseCase construye el caso de uso.
func NewRecordUseCase(repo repository.HistoryRepository) *RecordUseCase {
	return &RecordUseCase{repo: repo}
}

// RecordDay calcula y guarda el registro del día. Llamarlo dos veces con la
// misma fecha deja exactamente un registro, con los valores de la segunda.
func (uc *RecordUseCase) RecordDay(
	ctx context.Context,
	date string,
	items []entity.Item,
	todaysLog []entity.TransactionLogEntry,
) (entity.HistoryRecord, error) {
	rec := Compute(date, items, todaysLog)
	if err := uc.repo.Upsert(ctx, rec); err != nil {
		return entity.HistoryRecord{}, fmt.Errorf("guardar historial: %w", err)
	}
	return rec, nil
}

// List devuelve todos los registros diarios.
func (uc *RecordUseCase) List(ctx context.Context) ([]entity.HistoryRecord, error) {
	return uc.repo.List(ctx)
}

// GetByDate devuelve el registro de una fecha, o nil si no existe.
func (uc *RecordUseCase) GetByDate(ctx context.Context, date string) (*entity.HistoryRecord, error) {
	return uc.repo.GetByDate(ctx, date)
}

// Compute agrega los valores del día sin efectos secundarios.
func Compute(date string, items []entity.Item, todaysLog []entity.TransactionLogEntry) entity.HistoryRecord {
	rec := entity.HistoryRecord{
		Date:            date,
		TotalStockValue: decimal.Zero,
		TotalOrderValue: decimal.Zero,
		Details:         map[string]entity.CategoryTotals{},
	}
	for _, it := range items {
		v := it.StockValue()
		rec.TotalStockValue = rec.TotalStockValue.Add(v)
		d := rec.Details[it.Category]
		d.StockValue = d.StockValue.Add(v)
		rec.Details[it.Category] = d
	}
	for _, e := range todaysLog {
		rec.TotalOrderValue = rec.TotalOrderValue.Add(e.Value)
		d := rec.Details[e.Category]
		d.OrderValue = d.OrderValue.Add(e.Value)
		rec.Details[e.Category] = d
	}
	return rec
}
