package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)
var _ repository.MovementLogRepository = (*MovementLogRepo)(nil)
var _ repository.SequenceRepository = (*SequenceRepo)(nil)
var _ repository.PartyAccountRepository = (*PartyAccountRepo)(nil)
var _ repository.StockItemRepository = (*StockItemRepo)(nil)
var _ repository.LocationRepository = (*LocationRepo)(nil)

// Los repos atados a una transacción (inTx) no toman mu: el tx runner ya lo
// retiene en modo escritura durante toda la transacción. Los repos sueltos sí
// lo toman por operación, y por eso bloquean mientras una tx está en vuelo en
// lugar de observar estado sin confirmar.

// StockRepo stock por (ítem, ubicación) en memoria.
type StockRepo struct {
	s    *Store
	inTx bool
}

// NewStockRepository construye el adaptador para uso fuera de transacción.
func NewStockRepository(s *Store) *StockRepo { return &StockRepo{s: s} }

func (r *StockRepo) Get(ctx context.Context, itemID, locationID string) (*entity.Stock, error) {
	if !r.inTx {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	if st, ok := r.s.stocks[stockKey(itemID, locationID)]; ok {
		cp := st
		return &cp, nil
	}
	return &entity.Stock{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero, OpeningQuantity: decimal.Zero}, nil
}

func (r *StockRepo) EnsureExists(ctx context.Context, itemID, locationID string) error {
	if !r.inTx {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	key := stockKey(itemID, locationID)
	if _, ok := r.s.stocks[key]; !ok {
		r.s.stocks[key] = entity.Stock{
			ItemID:          itemID,
			LocationID:      locationID,
			Quantity:        decimal.Zero,
			OpeningQuantity: decimal.Zero,
		}
	}
	return nil
}

// GetForUpdate en memoria equivale a Get: la exclusión la da el tx runner,
// que retiene el lock del store durante la transacción completa.
func (r *StockRepo) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.Stock, error) {
	return r.Get(ctx, itemID, locationID)
}

func (r *StockRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	if !r.inTx {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	// Copia local: el adaptador no reescribe la entrada del caller.
	cp := *stock
	key := stockKey(cp.ItemID, cp.LocationID)
	if prev, ok := r.s.stocks[key]; ok {
		// opening_quantity es inmutable tras crear la fila.
		cp.OpeningQuantity = prev.OpeningQuantity
	}
	r.s.stocks[key] = cp
	return nil
}

// MovementLogRepo log de movimientos en memoria (slice append-only).
type MovementLogRepo struct {
	s    *Store
	inTx bool
}

// NewMovementLogRepository construye el adaptador para uso fuera de transacción.
func NewMovementLogRepository(s *Store) *MovementLogRepo { return &MovementLogRepo{s: s} }

func (r *MovementLogRepo) Append(ctx context.Context, entry *entity.MovementEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if !r.inTx {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	r.s.movements = append(r.s.movements, *entry)
	return nil
}

// ListRecent recorre el slice desde el final: el orden de inserción es el
// orden temporal, incluso para asientos con el mismo CreatedAt.
func (r *MovementLogRepo) ListRecent(ctx context.Context, itemID, locationID string, limit int) ([]*entity.MovementEntry, error) {
	if !r.inTx {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	var list []*entity.MovementEntry
	for i := len(r.s.movements) - 1; i >= 0 && len(list) < limit; i-- {
		m := r.s.movements[i]
		if m.ItemID == itemID && m.LocationID == locationID {
			cp := m
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *MovementLogRepo) SumDeltas(ctx context.Context, itemID, locationID string) (decimal.Decimal, error) {
	if !r.inTx {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	sum := decimal.Zero
	for _, m := range r.s.movements {
		if m.ItemID == itemID && m.LocationID == locationID {
			sum = sum.Add(m.Delta)
		}
	}
	return sum, nil
}

// SequenceRepo contadores consecutivos en memoria.
type SequenceRepo struct {
	s    *Store
	inTx bool
}

// NewSequenceRepository construye el adaptador para uso fuera de transacción.
func NewSequenceRepository(s *Store) *SequenceRepo { return &SequenceRepo{s: s} }

// NextValue incrementa y lee bajo el lock del store: un único paso atómico.
func (r *SequenceRepo) NextValue(ctx context.Context, branchID, kind string, year int) (int64, error) {
	if !r.inTx {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	key := seqKey(branchID, kind, year)
	r.s.sequences[key]++
	return r.s.sequences[key], nil
}

func (r *SequenceRepo) Get(ctx context.Context, branchID, kind string, year int) (*entity.DocumentSequence, error) {
	if !r.inTx {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	n, ok := r.s.sequences[seqKey(branchID, kind, year)]
	if !ok {
		return nil, nil
	}
	return &entity.DocumentSequence{BranchID: branchID, Kind: kind, Year: year, LastNumber: n}, nil
}

// PartyAccountRepo cuentas de contrapartes en memoria.
type PartyAccountRepo struct {
	s    *Store
	inTx bool
}

// NewPartyAccountRepository construye el adaptador para uso fuera de transacción.
func NewPartyAccountRepository(s *Store) *PartyAccountRepo { return &PartyAccountRepo{s: s} }

func (r *PartyAccountRepo) Get(ctx context.Context, partyID string) (*entity.PartyAccount, error) {
	if !r.inTx {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	if a, ok := r.s.accounts[partyID]; ok {
		cp := a
		return &cp, nil
	}
	return nil, nil
}

func (r *PartyAccountRepo) GetForUpdate(ctx context.Context, partyID string) (*entity.PartyAccount, error) {
	return r.Get(ctx, partyID)
}

func (r *PartyAccountRepo) Create(ctx context.Context, account *entity.PartyAccount) error {
	if !r.inTx {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if _, ok := r.s.accounts[account.PartyID]; ok {
		return domain.ErrInvalidInput
	}
	r.s.accounts[account.PartyID] = *account
	return nil
}

func (r *PartyAccountRepo) Upsert(ctx context.Context, account *entity.PartyAccount) error {
	if !r.inTx {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	// Copia local: el adaptador no reescribe la entrada del caller.
	cp := *account
	if prev, ok := r.s.accounts[cp.PartyID]; ok {
		cp.OpeningBalance = prev.OpeningBalance
	}
	r.s.accounts[cp.PartyID] = cp
	return nil
}

// StockItemRepo catálogo de ítems en memoria. Solo se usa fuera de
// transacción (validación de existencia y sembrado).
type StockItemRepo struct {
	s *Store
}

// NewStockItemRepository construye el adaptador.
func NewStockItemRepository(s *Store) *StockItemRepo { return &StockItemRepo{s: s} }

func (r *StockItemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if it, ok := r.s.items[id]; ok {
		cp := it
		return &cp, nil
	}
	return nil, nil
}

func (r *StockItemRepo) GetByCode(ctx context.Context, code string) (*entity.StockItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, it := range r.s.items {
		if it.Code == code {
			cp := it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *StockItemRepo) Create(ctx context.Context, item *entity.StockItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[item.ID] = *item
	return nil
}

// LocationRepo catálogo de ubicaciones en memoria. Solo se usa fuera de
// transacción.
type LocationRepo struct {
	s *Store
}

// NewLocationRepository construye el adaptador.
func NewLocationRepository(s *Store) *LocationRepo { return &LocationRepo{s: s} }

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if l, ok := r.s.locations[id]; ok {
		cp := l
		return &cp, nil
	}
	return nil, nil
}

func (r *LocationRepo) Create(ctx context.Context, location *entity.Location) error {
	if location.ID == "" {
		location.ID = uuid.New().String()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.locations[location.ID] = *location
	return nil
}
