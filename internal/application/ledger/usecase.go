package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

// Límites para ListRecent.
const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// StockLedger es el dueño exclusivo de la cantidad actual por (ítem,
// ubicación) y de la creación de asientos en el log de movimientos.
// Aplica movimientos con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback,
// de modo que dos ventas concurrentes nunca lean el mismo "antes" y se pisen.
type StockLedger struct {
	txRunner     TxRunner
	itemRepo     repository.StockItemRepository
	locationRepo repository.LocationRepository
	stockRepo    repository.StockRepository       // lecturas fuera de tx
	movRepo      repository.MovementLogRepository // lecturas fuera de tx
}

// NewStockLedger construye el caso de uso.
func NewStockLedger(
	txRunner TxRunner,
	itemRepo repository.StockItemRepository,
	locationRepo repository.LocationRepository,
	stockRepo repository.StockRepository,
	movRepo repository.MovementLogRepository,
) *StockLedger {
	return &StockLedger{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		stockRepo:    stockRepo,
		movRepo:      movRepo,
	}
}

// MovementInput entrada para aplicar un movimiento.
// Delta firmado: positivo entrada, negativo salida.
type MovementInput struct {
	ItemID     string
	LocationID string
	Delta      decimal.Decimal
	Kind       string
	Ref        entity.DocumentRef
	Remark     string
	UserID     string
}

// ReconcileReport resultado del chequeo de integridad de un (ítem, ubicación).
type ReconcileReport struct {
	ItemID           string
	LocationID       string
	StoredQuantity   decimal.Decimal
	ComputedQuantity decimal.Decimal
	Matches          bool
}

// ApplyMovement valida la entrada, verifica que ítem y ubicación existan y
// aplica el movimiento dentro de una transacción. Devuelve la cantidad
// resultante y el asiento creado.
func (uc *StockLedger) ApplyMovement(ctx context.Context, in MovementInput) (decimal.Decimal, *entity.MovementEntry, error) {
	if err := uc.validate(ctx, in); err != nil {
		return decimal.Zero, nil, err
	}

	now := time.Now()
	var (
		newQty decimal.Decimal
		entry  *entity.MovementEntry
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementLogRepository,
		stockRepo repository.StockRepository,
	) error {
		var err error
		newQty, entry, err = uc.ApplyMovementInTx(ctx, movRepo, stockRepo, in, now)
		return err
	})
	if err != nil {
		return decimal.Zero, nil, err
	}
	return newQty, entry, nil
}

// ApplyMovementInTx aplica un movimiento usando los repositorios del caller
// (misma transacción). Lo usan operaciones de negocio que agrupan varios
// movimientos en una sola unidad atómica, como el registro de una venta.
//
// Secuencia, atómica respecto a otras llamadas sobre el mismo (ítem, ubicación):
//  1. asegurar fila de stock (cantidad 0 si es la primera vez) y bloquearla,
//  2. newQty = cantidad actual + delta,
//  3. newQty < 0 se rechaza con ErrInsufficientStock salvo AUDIT_CORRECTION,
//  4. persistir cantidad y asiento (before, after, delta) como unidad,
//  5. devolver cantidad actualizada y asiento creado.
func (uc *StockLedger) ApplyMovementInTx(
	ctx context.Context,
	movRepo repository.MovementLogRepository,
	stockRepo repository.StockRepository,
	in MovementInput,
	now time.Time,
) (decimal.Decimal, *entity.MovementEntry, error) {
	if err := stockRepo.EnsureExists(ctx, in.ItemID, in.LocationID); err != nil {
		return decimal.Zero, nil, err
	}
	stock, err := stockRepo.GetForUpdate(ctx, in.ItemID, in.LocationID)
	if err != nil {
		return decimal.Zero, nil, err
	}

	before := stock.Quantity
	newQty := before.Add(in.Delta)
	if newQty.IsNegative() && in.Kind != entity.MovementKindAuditCorrection {
		return decimal.Zero, nil, domain.ErrInsufficientStock
	}

	stock.Quantity = newQty
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(ctx, stock); err != nil {
		return decimal.Zero, nil, err
	}

	entry := &entity.MovementEntry{
		ID:             uuid.New().String(),
		ItemID:         in.ItemID,
		LocationID:     in.LocationID,
		Delta:          in.Delta,
		QuantityBefore: before,
		QuantityAfter:  newQty,
		Kind:           in.Kind,
		RefType:        in.Ref.Type,
		RefID:          in.Ref.ID,
		Remark:         in.Remark,
		CreatedAt:      now,
		CreatedBy:      in.UserID,
	}
	if err := movRepo.Append(ctx, entry); err != nil {
		return decimal.Zero, nil, err
	}
	return newQty, entry, nil
}

// CorrectQuantity es la vía de escape documentada para reparar historia
// (recuperación de incidentes): fija la cantidad en newQuantity, incluso
// bajando a 0 o desde un valor negativo heredado. Siempre deja un asiento
// AUDIT_CORRECTION y exige un remark legible explicando la procedencia
// (ej: "reset tras reconciliar doble conteo").
func (uc *StockLedger) CorrectQuantity(ctx context.Context, itemID, locationID string, newQuantity decimal.Decimal, remark, userID string) (*entity.MovementEntry, error) {
	if remark == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkCatalog(ctx, itemID, locationID); err != nil {
		return nil, err
	}

	now := time.Now()
	var entry *entity.MovementEntry
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementLogRepository,
		stockRepo repository.StockRepository,
	) error {
		if err := stockRepo.EnsureExists(ctx, itemID, locationID); err != nil {
			return err
		}
		stock, err := stockRepo.GetForUpdate(ctx, itemID, locationID)
		if err != nil {
			return err
		}
		// El delta se deriva dentro de la tx para que la corrección aterrice
		// exactamente en newQuantity aunque otro writer acabe de pasar.
		in := MovementInput{
			ItemID:     itemID,
			LocationID: locationID,
			Delta:      newQuantity.Sub(stock.Quantity),
			Kind:       entity.MovementKindAuditCorrection,
			Ref:        entity.DocumentRef{Type: "adjustment_note"},
			Remark:     remark,
			UserID:     userID,
		}
		_, entry, err = uc.ApplyMovementInTx(ctx, movRepo, stockRepo, in, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetCurrentQuantity devuelve la cantidad actual (0 si nunca hubo stock).
func (uc *StockLedger) GetCurrentQuantity(ctx context.Context, itemID, locationID string) (decimal.Decimal, error) {
	if err := uc.checkCatalog(ctx, itemID, locationID); err != nil {
		return decimal.Zero, err
	}
	stock, err := uc.stockRepo.Get(ctx, itemID, locationID)
	if err != nil {
		return decimal.Zero, err
	}
	return stock.Quantity, nil
}

// RecentMovements devuelve los últimos movimientos, del más reciente al más
// antiguo. limit <= 0 usa el valor por defecto; se acota al máximo.
func (uc *StockLedger) RecentMovements(ctx context.Context, itemID, locationID string, limit int) ([]*entity.MovementEntry, error) {
	if err := uc.checkCatalog(ctx, itemID, locationID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return uc.movRepo.ListRecent(ctx, itemID, locationID, limit)
}

// Reconcile recalcula la cantidad desde el log (apertura + Σ deltas) y la
// compara con la almacenada. Reemplaza los scripts sueltos de "arreglar stock
// negativo" / "resetear a cero" con un chequeo verificado y reutilizable:
// cualquier desacuerdo señala una escritura fuera del ledger.
// Ambas lecturas van dentro de una transacción: un movimiento aterrizando
// entre la cantidad y la suma no produce un falso desacuerdo.
func (uc *StockLedger) Reconcile(ctx context.Context, itemID, locationID string) (*ReconcileReport, error) {
	if err := uc.checkCatalog(ctx, itemID, locationID); err != nil {
		return nil, err
	}
	var report *ReconcileReport
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementLogRepository,
		stockRepo repository.StockRepository,
	) error {
		stock, err := stockRepo.Get(ctx, itemID, locationID)
		if err != nil {
			return err
		}
		sum, err := movRepo.SumDeltas(ctx, itemID, locationID)
		if err != nil {
			return err
		}
		computed := stock.OpeningQuantity.Add(sum)
		report = &ReconcileReport{
			ItemID:           itemID,
			LocationID:       locationID,
			StoredQuantity:   stock.Quantity,
			ComputedQuantity: computed,
			Matches:          computed.Equal(stock.Quantity),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (uc *StockLedger) validate(ctx context.Context, in MovementInput) error {
	if !entity.ValidMovementKind(in.Kind) || in.Delta.IsZero() {
		return domain.ErrInvalidInput
	}
	// Correcciones sueltas entran por CorrectQuantity; si llegan por aquí
	// igual exigen remark.
	if in.Kind == entity.MovementKindAuditCorrection && in.Remark == "" {
		return domain.ErrInvalidInput
	}
	return uc.checkCatalog(ctx, in.ItemID, in.LocationID)
}

func (uc *StockLedger) checkCatalog(ctx context.Context, itemID, locationID string) error {
	if itemID == "" || locationID == "" {
		return domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	loc, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.ErrNotFound
	}
	return nil
}
