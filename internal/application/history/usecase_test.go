package history_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/namistock-host/internal/application/history"
	"github.com/jhoicas/namistock-host/internal/domain/entity"
)

type fakeHistoryRepo struct {
	records map[string]entity.HistoryRecord
}

func (f *fakeHistoryRepo) Upsert(_ context.Context, rec entity.HistoryRecord) error {
	if f.records == nil {
		f.records = map[string]entity.HistoryRecord{}
	}
	f.records[rec.Date] = rec
	return nil
}

func (f *fakeHistoryRepo) GetByDate(_ context.Context, date string) (*entity.HistoryRecord, error) {
	if rec, ok := f.records[date]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeHistoryRepo) List(context.Context) ([]entity.HistoryRecord, error) {
	var out []entity.HistoryRecord
	for _, rec := range f.records {
		out = append(out, rec)
	}
	return out, nil
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestCompute_AgregaPorCategoria(t *testing.T) {
	items := []entity.Item{
		{Category: "Drinks", Name: "Cola", PrevStock: 6, UnitPrice: dec("20")},
		{Category: "Drinks", Name: "Water", PrevStock: 5, UnitPrice: dec("10")},
		{Category: "Snacks", Name: "Chips", PrevStock: 7, UnitPrice: dec("15")},
	}
	logs := []entity.TransactionLogEntry{
		{Category: "Drinks", Name: "Water", ReceivedQty: 5, Value: dec("50")},
		{Category: "Snacks", Name: "Chips", ReceivedQty: 2, Value: dec("30")},
	}

	rec := history.Compute("2026-03-15", items, logs)

	assert.Equal(t, "2026-03-15", rec.Date)
	assert.True(t, rec.TotalStockValue.Equal(dec("275")), "6*20 + 5*10 + 7*15")
	assert.True(t, rec.TotalOrderValue.Equal(dec("80")))

	drinks := rec.Details["Drinks"]
	assert.True(t, drinks.StockValue.Equal(dec("170")))
	assert.True(t, drinks.OrderValue.Equal(dec("50")))

	snacks := rec.Details["Snacks"]
	assert.True(t, snacks.StockValue.Equal(dec("105")))
	assert.True(t, snacks.OrderValue.Equal(dec("30")))
}

func TestCompute_SinEntradasProduceCeros(t *testing.T) {
	rec := history.Compute("2026-03-15", nil, nil)

	assert.True(t, rec.TotalStockValue.IsZero())
	assert.True(t, rec.TotalOrderValue.IsZero())
	assert.Empty(t, rec.Details)
}

func TestRecordDay_UpsertPorFecha(t *testing.T) {
	repo := &fakeHistoryRepo{}
	uc := history.NewRecordUseCase(repo)
	ctx := context.Background()

	items := []entity.Item{{Category: "Drinks", Name: "Cola", PrevStock: 6, UnitPrice: dec("20")}}
	_, err := uc.RecordDay(ctx, "2026-03-15", items, nil)
	require.NoError(t, err)

	// Segundo cierre del mismo día: el registro se reemplaza, no se duplica.
	items[0].PrevStock = 4
	_, err = uc.RecordDay(ctx, "2026-03-15", items, nil)
	require.NoError(t, err)

	all, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].TotalStockValue.Equal(dec("80")), "prevalecen los valores del segundo registro")

	rec, err := uc.GetByDate(ctx, "2026-03-15")
	require.NoError(t, err)
	require.NotNil(t, rec)

	missing, err := uc.GetByDate(ctx, "2026-01-01")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
