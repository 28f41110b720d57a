package repository

import (
	"context"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar la cantidad
// actual por (ítem, ubicación). La mutación solo ocurre dentro de
// transacciones del Stock Ledger.
type StockRepository interface {
	// Get devuelve el stock; si no hay fila todavía retorna un Stock con
	// cantidad cero (la fila se crea con el primer movimiento).
	Get(ctx context.Context, itemID, locationID string) (*entity.Stock, error)

	// EnsureExists crea la fila con cantidad cero si no existe. Necesario
	// antes de GetForUpdate: un SELECT FOR UPDATE sobre una fila inexistente
	// no bloquea nada y dos creadores concurrentes se pisarían.
	EnsureExists(ctx context.Context, itemID, locationID string) error

	// GetForUpdate obtiene el stock bloqueando la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.Stock, error)

	Upsert(ctx context.Context, stock *entity.Stock) error
}
