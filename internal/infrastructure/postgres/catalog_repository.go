package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)
var _ repository.LocationRepository = (*LocationRepo)(nil)

// StockItemRepo catálogo de ítems sobre PostgreSQL.
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador.
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

func (r *StockItemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	const query = `SELECT id, code, name, created_at FROM stock_items WHERE id = $1`
	var it entity.StockItem
	err := r.q.QueryRow(ctx, query, id).Scan(&it.ID, &it.Code, &it.Name, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return &it, nil
}

func (r *StockItemRepo) GetByCode(ctx context.Context, code string) (*entity.StockItem, error) {
	const query = `SELECT id, code, name, created_at FROM stock_items WHERE code = $1`
	var it entity.StockItem
	err := r.q.QueryRow(ctx, query, code).Scan(&it.ID, &it.Code, &it.Name, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item by code: %w", err)
	}
	return &it, nil
}

func (r *StockItemRepo) Create(ctx context.Context, item *entity.StockItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO stock_items (id, code, name, created_at)
		VALUES ($1, $2, $3, now())`
	if _, err := r.q.Exec(ctx, query, item.ID, item.Code, item.Name); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("create stock item: %w", err)
	}
	return nil
}

// LocationRepo catálogo de ubicaciones sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	const query = `SELECT id, branch_id, code, name, created_at FROM locations WHERE id = $1`
	var l entity.Location
	err := r.q.QueryRow(ctx, query, id).Scan(&l.ID, &l.BranchID, &l.Code, &l.Name, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

func (r *LocationRepo) Create(ctx context.Context, location *entity.Location) error {
	if location.ID == "" {
		location.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO locations (id, branch_id, code, name, created_at)
		VALUES ($1, $2, $3, $4, now())`
	if _, err := r.q.Exec(ctx, query, location.ID, location.BranchID, location.Code, location.Name); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}
