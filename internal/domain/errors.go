package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// El núcleo nunca traga una mutación fallida: todo error se propaga al caller.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrConcurrentModification se retorna cuando se agotan los reintentos
	// de una transacción por conflicto de serialización.
	ErrConcurrentModification = errors.New("modificación concurrente: reintentos agotados")
	// ErrPersistence indica almacenamiento no disponible. Fatal para la
	// operación actual; no reintentar con otros datos (riesgo de doble registro).
	ErrPersistence  = errors.New("fallo de persistencia")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)
