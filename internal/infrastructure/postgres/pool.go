package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool crea un pool de conexiones PostgreSQL desde el connection string
// (DATABASE_URL). Registra el codec NUMERIC -> shopspring/decimal en todas
// las conexiones del pool.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// EnsureSchema crea las tablas del almacén durable si no existen.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			position INT NOT NULL,
			name TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			category TEXT NOT NULL,
			name TEXT NOT NULL,
			item_number TEXT NOT NULL DEFAULT '',
			prev_stock INT NOT NULL DEFAULT 0,
			stock_remaining INT NOT NULL DEFAULT 0,
			order_qty INT NOT NULL DEFAULT 0,
			min_stock_target INT NOT NULL DEFAULT 0,
			unit_price NUMERIC NOT NULL DEFAULT 0,
			position INT NOT NULL,
			PRIMARY KEY (category, name)
		)`,
		`CREATE TABLE IF NOT EXISTS history (
			day TEXT PRIMARY KEY,
			total_stock_value NUMERIC NOT NULL,
			total_order_value NUMERIC NOT NULL,
			details JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transaction_logs (
			id UUID PRIMARY KEY,
			day TEXT NOT NULL,
			time TIMESTAMPTZ NOT NULL,
			category TEXT NOT NULL,
			name TEXT NOT NULL,
			ordered_qty INT NOT NULL,
			received_qty INT NOT NULL,
			value NUMERIC NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transaction_logs_day ON transaction_logs (day)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("crear esquema: %w", err)
		}
	}
	return nil
}
