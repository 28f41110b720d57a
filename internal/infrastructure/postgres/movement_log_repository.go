package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

var _ repository.MovementLogRepository = (*MovementLogRepo)(nil)

// MovementLogRepo implementación del log de movimientos sobre PostgreSQL
// (usable con pool o tx). La tabla es append-only: este adaptador no expone
// UPDATE ni DELETE.
type MovementLogRepo struct {
	q Querier
}

// NewMovementLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementLogRepository(q Querier) *MovementLogRepo {
	return &MovementLogRepo{q: q}
}

// Append persiste un asiento del log.
func (r *MovementLogRepo) Append(ctx context.Context, entry *entity.MovementEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO stock_movements
			(id, item_id, location_id, delta, quantity_before, quantity_after, kind, ref_type, ref_id, remark, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	createdBy := (*string)(nil)
	if entry.CreatedBy != "" {
		createdBy = &entry.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.ItemID, entry.LocationID,
		entry.Delta, entry.QuantityBefore, entry.QuantityAfter,
		entry.Kind, entry.RefType, entry.RefID, entry.Remark,
		entry.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// ListRecent lista los últimos asientos de un (ítem, ubicación), descendente
// por fecha de creación. El desempate por id mantiene estable el orden de
// asientos creados en la misma transacción.
func (r *MovementLogRepo) ListRecent(ctx context.Context, itemID, locationID string, limit int) ([]*entity.MovementEntry, error) {
	const query = `
		SELECT id, item_id, location_id, delta, quantity_before, quantity_after,
		       kind, ref_type, ref_id, remark, created_at, COALESCE(created_by, '')
		FROM stock_movements
		WHERE item_id = $1 AND location_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, itemID, locationID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementEntry
	for rows.Next() {
		var m entity.MovementEntry
		if err := rows.Scan(&m.ID, &m.ItemID, &m.LocationID,
			&m.Delta, &m.QuantityBefore, &m.QuantityAfter,
			&m.Kind, &m.RefType, &m.RefID, &m.Remark,
			&m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumDeltas suma los deltas registrados para un (ítem, ubicación).
func (r *MovementLogRepo) SumDeltas(ctx context.Context, itemID, locationID string) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(delta), 0)
		FROM stock_movements
		WHERE item_id = $1 AND location_id = $2`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, itemID, locationID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum movement deltas: %w", err)
	}
	return sum, nil
}
