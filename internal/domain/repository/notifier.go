package repository

import "context"

// Notifier envía un mensaje de texto plano a un destino externo tras el cierre
// de ciclo. Es fire-and-forget: el fallo se loguea y no afecta al cierre.
type Notifier interface {
	Send(ctx context.Context, message string) error
}
