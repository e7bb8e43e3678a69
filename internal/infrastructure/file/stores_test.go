package file_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/namistock-host/internal/domain/entity"
	"github.com/jhoicas/namistock-host/internal/infrastructure/file"
)

func TestSnapshotStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := file.NewSnapshotStore(dir)
	ctx := context.Background()

	// Sin foto previa: nil sin error.
	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	price, _ := decimal.NewFromString("20.50")
	in := &entity.Snapshot{
		Categories: []string{"Drinks", "Snacks"},
		Items: []entity.Item{
			{ItemNumber: "D-01", Category: "Drinks", Name: "Cola", PrevStock: 10, StockRemaining: 4, OrderQty: 2, MinStockTarget: 6, UnitPrice: price},
		},
	}
	require.NoError(t, s.Save(ctx, in))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.Categories, out.Categories)
	require.Len(t, out.Items, 1)
	assert.Equal(t, in.Items[0].ItemNumber, out.Items[0].ItemNumber)
	assert.Equal(t, in.Items[0].StockRemaining, out.Items[0].StockRemaining)
	assert.True(t, in.Items[0].UnitPrice.Equal(out.Items[0].UnitPrice), "el precio decimal no pierde precisión en JSON")
}

func TestTransactionLogStore_RotacionDiaria(t *testing.T) {
	dir := t.TempDir()
	s := file.NewTransactionLogStore(dir)
	ctx := context.Background()

	entries := []entity.TransactionLogEntry{
		{ID: "a", Time: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC), Category: "Drinks", Name: "Water", OrderedQty: 5, ReceivedQty: 5, Value: decimal.NewFromInt(50)},
	}
	require.NoError(t, s.SaveDay(ctx, "2026-03-14", entries))

	same, err := s.LoadDay(ctx, "2026-03-14")
	require.NoError(t, err)
	require.Len(t, same, 1)
	assert.Equal(t, "a", same[0].ID)

	// Pedir otro día sobre el mismo archivo: vacío, el log no se mezcla.
	next, err := s.LoadDay(ctx, "2026-03-15")
	require.NoError(t, err)
	assert.Empty(t, next)
}

func TestTransactionLogStore_SinArchivo(t *testing.T) {
	s := file.NewTransactionLogStore(t.TempDir())
	entries, err := s.LoadDay(context.Background(), "2026-03-15")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryStore_UpsertYOrden(t *testing.T) {
	dir := t.TempDir()
	s := file.NewHistoryStore(dir)
	ctx := context.Background()

	rec := func(date, stock string) entity.HistoryRecord {
		v, _ := decimal.NewFromString(stock)
		return entity.HistoryRecord{
			Date:            date,
			TotalStockValue: v,
			TotalOrderValue: decimal.Zero,
			Details:         map[string]entity.CategoryTotals{"Drinks": {StockValue: v}},
		}
	}

	require.NoError(t, s.Upsert(ctx, rec("2026-03-15", "100")))
	require.NoError(t, s.Upsert(ctx, rec("2026-03-14", "90")))
	// Mismo día otra vez: reemplaza.
	require.NoError(t, s.Upsert(ctx, rec("2026-03-15", "120")))

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2026-03-14", records[0].Date, "la lista queda ordenada por fecha")
	assert.Equal(t, "2026-03-15", records[1].Date)
	assert.True(t, records[1].TotalStockValue.Equal(decimal.NewFromInt(120)))

	got, err := s.GetByDate(ctx, "2026-03-14")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Details["Drinks"].StockValue.Equal(decimal.NewFromInt(90)))

	missing, err := s.GetByDate(ctx, "2026-01-01")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
