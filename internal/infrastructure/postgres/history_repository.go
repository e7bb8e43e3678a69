package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/namistock-host/internal/domain/entity"
	"github.com/jhoicas/namistock-host/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo implementa el puerto HistoryRepository sobre PostgreSQL.
// El desglose por categoría se guarda como JSONB.
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

// Upsert inserta o reemplaza el registro del día (ON CONFLICT por fecha).
func (r *HistoryRepo) Upsert(ctx context.Context, rec entity.HistoryRecord) error {
	details, err := json.Marshal(rec.Details)
	if err != nil {
		return fmt.Errorf("codificar desglose: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO history (day, total_stock_value, total_order_value, details)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (day) DO UPDATE SET
			total_stock_value = EXCLUDED.total_stock_value,
			total_order_value = EXCLUDED.total_order_value,
			details = EXCLUDED.details`,
		rec.Date, rec.TotalStockValue, rec.TotalOrderValue, details,
	)
	if err != nil {
		return fmt.Errorf("upsert historial: %w", err)
	}
	return nil
}

// GetByDate devuelve el registro de la fecha, o nil si no existe.
func (r *HistoryRepo) GetByDate(ctx context.Context, date string) (*entity.HistoryRecord, error) {
	row := r.q.QueryRow(ctx, `
		SELECT day, total_stock_value, total_order_value, details
		FROM history WHERE day = $1`, date)
	rec, err := scanHistory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer historial: %w", err)
	}
	return rec, nil
}

// List devuelve todos los registros diarios, ordenados por fecha.
func (r *HistoryRepo) List(ctx context.Context) ([]entity.HistoryRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT day, total_stock_value, total_order_value, details
		FROM history ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("listar historial: %w", err)
	}
	defer rows.Close()

	var records []entity.HistoryRecord
	for rows.Next() {
		rec, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan historial: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listar historial: %w", err)
	}
	return records, nil
}

func scanHistory(row pgx.Row) (*entity.HistoryRecord, error) {
	var rec entity.HistoryRecord
	var details []byte
	if err := row.Scan(&rec.Date, &rec.TotalStockValue, &rec.TotalOrderValue, &details); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(details, &rec.Details); err != nil {
		return nil, fmt.Errorf("decodificar desglose: %w", err)
	}
	return &rec, nil
}
