package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/namistock-host/internal/domain/entity"
	"github.com/jhoicas/namistock-host/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo implementa el puerto SnapshotRepository sobre PostgreSQL.
// Save es transaccional (vaciar e insertar) para que la foto publicada sea
// siempre completa; Load reconstruye respetando el orden guardado.
type SnapshotRepo struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository construye el adaptador de persistencia de la foto.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepo {
	return &SnapshotRepo{pool: pool}
}

// Load devuelve la foto guardada, o nil si las tablas están vacías.
func (r *SnapshotRepo) Load(ctx context.Context) (*entity.Snapshot, error) {
	snap := &entity.Snapshot{}

	rows, err := r.pool.Query(ctx, `SELECT name FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("leer categorías: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan categoría: %w", err)
		}
		snap.Categories = append(snap.Categories, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leer categorías: %w", err)
	}
	rows.Close()

	itemRows, err := r.pool.Query(ctx, `
		SELECT category, name, item_number, prev_stock, stock_remaining, order_qty, min_stock_target, unit_price
		FROM items ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("leer artículos: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it entity.Item
		if err := itemRows.Scan(
			&it.Category, &it.Name, &it.ItemNumber, &it.PrevStock,
			&it.StockRemaining, &it.OrderQty, &it.MinStockTarget, &it.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("scan artículo: %w", err)
		}
		snap.Items = append(snap.Items, it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("leer artículos: %w", err)
	}

	if len(snap.Categories) == 0 && len(snap.Items) == 0 {
		return nil, nil
	}
	return snap, nil
}

// Save reemplaza la foto completa dentro de una transacción.
func (r *SnapshotRepo) Save(ctx context.Context, snap *entity.Snapshot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("vaciar artículos: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("vaciar categorías: %w", err)
	}
	for i, name := range snap.Categories {
		if _, err := tx.Exec(ctx,
			`INSERT INTO categories (position, name) VALUES ($1, $2)`, i, name); err != nil {
			return fmt.Errorf("insertar categoría: %w", err)
		}
	}
	for i, it := range snap.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO items (category, name, item_number, prev_stock, stock_remaining, order_qty, min_stock_target, unit_price, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.Category, it.Name, it.ItemNumber, it.PrevStock,
			it.StockRemaining, it.OrderQty, it.MinStockTarget, it.UnitPrice, i,
		); err != nil {
			return fmt.Errorf("insertar artículo: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
