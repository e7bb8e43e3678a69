package repository

import (
	"context"

	"github.com/jhoicas/namistock-host/internal/domain/entity"
)

// TransactionLogRepository persiste el log de recepciones del día actual.
// LoadDay devuelve vacío cuando el día guardado no coincide con el pedido
// (rotación diaria: el log viejo no se mezcla ni se archiva aquí).
type TransactionLogRepository interface {
	LoadDay(ctx context.Context, date string) ([]entity.TransactionLogEntry, error)
	SaveDay(ctx context.Context, date string, entries []entity.TransactionLogEntry) error
}
