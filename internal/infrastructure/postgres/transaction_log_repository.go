package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/namistock-host/internal/domain/entity"
	"github.com/jhoicas/namistock-host/internal/domain/repository"
)

var _ repository.TransactionLogRepository = (*TransactionLogRepo)(nil)

// TransactionLogRepo implementa el puerto TransactionLogRepository sobre
// PostgreSQL. A diferencia del store en archivo, los días viejos quedan en
// la tabla; la rotación diaria se respeta filtrando por fecha.
type TransactionLogRepo struct {
	pool *pgxpool.Pool
}

// NewTransactionLogRepository construye el adaptador.
func NewTransactionLogRepository(pool *pgxpool.Pool) *TransactionLogRepo {
	return &TransactionLogRepo{pool: pool}
}

// LoadDay devuelve las entradas de la fecha pedida, en orden temporal.
func (r *TransactionLogRepo) LoadDay(ctx context.Context, date string) ([]entity.TransactionLogEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, time, category, name, ordered_qty, received_qty, value
		FROM transaction_logs WHERE day = $1 ORDER BY time, id`, date)
	if err != nil {
		return nil, fmt.Errorf("leer log diario: %w", err)
	}
	defer rows.Close()

	var entries []entity.TransactionLogEntry
	for rows.Next() {
		var e entity.TransactionLogEntry
		if err := rows.Scan(&e.ID, &e.Time, &e.Category, &e.Name, &e.OrderedQty, &e.ReceivedQty, &e.Value); err != nil {
			return nil, fmt.Errorf("scan entrada: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leer log diario: %w", err)
	}
	return entries, nil
}

// SaveDay reemplaza las entradas del día dentro de una transacción.
func (r *TransactionLogRepo) SaveDay(ctx context.Context, date string, entries []entity.TransactionLogEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM transaction_logs WHERE day = $1`, date); err != nil {
		return fmt.Errorf("vaciar día: %w", err)
	}
	for _, e := range entries {
		if _, err := tx.Exec(ctx, `
			INSERT INTO transaction_logs (id, day, time, category, name, ordered_qty, received_qty, value)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			e.ID, date, e.Time, e.Category, e.Name, e.OrderedQty, e.ReceivedQty, e.Value,
		); err != nil {
			return fmt.Errorf("insertar entrada: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
