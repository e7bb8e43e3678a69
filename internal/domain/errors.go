package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrSheetNotFound     = errors.New("hoja remota no encontrada")
	ErrRemoteUnavailable = errors.New("almacén remoto no disponible")
	ErrNoOpenCycle       = errors.New("no hay ciclo abierto: sin pedidos ni conteos")
)
