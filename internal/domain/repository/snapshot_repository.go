package repository

import (
	"context"

	"github.com/jhoicas/namistock-host/internal/domain/entity"
)

// SnapshotRepository persiste la foto durable de artículos y categorías.
// Load devuelve nil (sin error) cuando todavía no existe ninguna foto.
type SnapshotRepository interface {
	Load(ctx context.Context) (*entity.Snapshot, error)
	Save(ctx context.Context, snap *entity.Snapshot) error
}
