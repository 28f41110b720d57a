package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// MovementLogRepository define el puerto del log de movimientos.
// El log es append-only: no existe Update ni Delete.
type MovementLogRepository interface {
	// Append persiste un asiento. Asigna ID si viene vacío.
	Append(ctx context.Context, entry *entity.MovementEntry) error

	// ListRecent devuelve los últimos N asientos de un (ítem, ubicación),
	// del más reciente al más antiguo (auditoría/depuración).
	ListRecent(ctx context.Context, itemID, locationID string, limit int) ([]*entity.MovementEntry, error)

	// SumDeltas suma los deltas de todos los asientos de un (ítem, ubicación).
	// Es el lado derecho del invariante de reconciliación.
	SumDeltas(ctx context.Context, itemID, locationID string) (decimal.Decimal, error)
}
