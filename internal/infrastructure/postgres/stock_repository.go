package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con
// pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual; fila inexistente equivale a cantidad cero.
func (r *StockRepo) Get(ctx context.Context, itemID, locationID string) (*entity.Stock, error) {
	const query = `
		SELECT item_id, location_id, quantity, opening_quantity, updated_at
		FROM stock WHERE item_id = $1 AND location_id = $2`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, itemID, locationID).Scan(
		&s.ItemID, &s.LocationID, &s.Quantity, &s.OpeningQuantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero, OpeningQuantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// EnsureExists crea la fila con cantidad cero si no existe todavía.
// Idempotente bajo concurrencia (ON CONFLICT DO NOTHING).
func (r *StockRepo) EnsureExists(ctx context.Context, itemID, locationID string) error {
	const query = `
		INSERT INTO stock (item_id, location_id, quantity, opening_quantity, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (item_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, itemID, locationID); err != nil {
		return fmt.Errorf("ensure stock row: %w", err)
	}
	return nil
}

// GetForUpdate obtiene el stock bloqueando la fila (SELECT FOR UPDATE).
// Llamar EnsureExists antes: sin fila no hay nada que bloquear.
func (r *StockRepo) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.Stock, error) {
	const query = `
		SELECT item_id, location_id, quantity, opening_quantity, updated_at
		FROM stock WHERE item_id = $1 AND location_id = $2
		FOR UPDATE`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, itemID, locationID).Scan(
		&s.ItemID, &s.LocationID, &s.Quantity, &s.OpeningQuantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero, OpeningQuantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad (por ítem y ubicación).
// opening_quantity solo se fija al insertar; después es inmutable.
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	const query = `
		INSERT INTO stock (item_id, location_id, quantity, opening_quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, stock.ItemID, stock.LocationID, stock.Quantity, stock.OpeningQuantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}
