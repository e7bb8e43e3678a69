package repository

import (
	"context"

	"github.com/jhoicas/namistock-host/internal/domain/entity"
)

// RemoteStore es el puerto hacia la tabla remota compartida con el cliente de
// conteo: una tabla ("hoja") por categoría. Ambas operaciones fallan por
// categoría; un fallo nunca debe impedir procesar a las demás.
//
// ReplaceRows es sobreescritura completa (borrar y escribir), no un parche:
// el motor depende de eso para que tras el cierre la tabla remota refleje
// exactamente la base publicada. No hay bloqueo entre procesos: si el cliente
// escribe entre ReadRows y ReplaceRows, esa escritura se pierde
// (last-writer-wins, riesgo aceptado y documentado).
type RemoteStore interface {
	ReadRows(ctx context.Context, category string) ([]entity.RemoteRow, error)
	ReplaceRows(ctx context.Context, category string, rows []entity.RemoteRow) error
}
