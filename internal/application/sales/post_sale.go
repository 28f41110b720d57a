package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-core/internal/application/ledger"
	"github.com/tu-usuario/almacen-core/internal/application/partyledger"
	"github.com/tu-usuario/almacen-core/internal/application/sequencer"
	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

// PostSaleUseCase registra una venta o una devolución de venta como una sola
// unidad de trabajo: un número de documento, un movimiento de stock por línea
// y un registro en el saldo de la contraparte por el total. Si cualquier
// línea falla (ej: stock insuficiente), toda la operación se revierte.
type PostSaleUseCase struct {
	txRunner    TxRunner
	stockLedger *ledger.StockLedger
	seq         *sequencer.DocumentSequencer
	partyLedger *partyledger.PartyLedger
	partyRepo   repository.PartyAccountRepository
}

// NewPostSaleUseCase construye el caso de uso.
func NewPostSaleUseCase(
	txRunner TxRunner,
	stockLedger *ledger.StockLedger,
	seq *sequencer.DocumentSequencer,
	partyLedger *partyledger.PartyLedger,
	partyRepo repository.PartyAccountRepository,
) *PostSaleUseCase {
	return &PostSaleUseCase{
		txRunner:    txRunner,
		stockLedger: stockLedger,
		seq:         seq,
		partyLedger: partyLedger,
		partyRepo:   partyRepo,
	}
}

// SaleLine una línea de la venta.
type SaleLine struct {
	ItemID    string
	Quantity  decimal.Decimal // siempre positiva
	UnitPrice decimal.Decimal
}

// SaleInput entrada para registrar una venta o devolución.
type SaleInput struct {
	BranchID   string
	LocationID string
	PartyID    string
	UserID     string
	Lines      []SaleLine
}

// SaleResult resultado del registro.
type SaleResult struct {
	Number     string
	Total      decimal.Decimal
	NewBalance decimal.Decimal
	Movements  []*entity.MovementEntry
}

// PostSale registra una venta: descuenta stock por línea (SALE), numera la
// factura en la serie invoice y carga el total al saldo del cliente.
func (uc *PostSaleUseCase) PostSale(ctx context.Context, in SaleInput) (*SaleResult, error) {
	return uc.post(ctx, in, entity.DocumentKindInvoice, entity.MovementKindSale)
}

// PostSaleReturn registra una devolución de venta: reingresa stock por línea
// (SALE_RETURN), numera en la serie sale_return y abona el total al cliente.
func (uc *PostSaleUseCase) PostSaleReturn(ctx context.Context, in SaleInput) (*SaleResult, error) {
	return uc.post(ctx, in, entity.DocumentKindSaleReturn, entity.MovementKindSaleReturn)
}

func (uc *PostSaleUseCase) post(ctx context.Context, in SaleInput, docKind, movKind string) (*SaleResult, error) {
	if in.BranchID == "" || in.LocationID == "" || in.PartyID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Lines {
		if line.ItemID == "" || !line.Quantity.GreaterThan(decimal.Zero) || line.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}
	// Cuenta del cliente validada fuera de la tx (solo lectura).
	account, err := uc.partyRepo.Get(ctx, in.PartyID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	result := &SaleResult{}
	err = uc.txRunner.RunSale(ctx, func(
		movRepo repository.MovementLogRepository,
		stockRepo repository.StockRepository,
		seqRepo repository.SequenceRepository,
		partyRepo repository.PartyAccountRepository,
	) error {
		// 1) Número de documento dentro de la misma tx: si la venta aborta,
		// el consecutivo no se consume y la serie queda sin huecos.
		number, err := uc.seq.NextNumberInTx(ctx, seqRepo, in.BranchID, docKind, now.Year())
		if err != nil {
			return err
		}
		result.Number = number

		// 2) Un movimiento por línea; la primera línea sin stock revierte todo.
		var total decimal.Decimal
		for _, line := range in.Lines {
			delta := line.Quantity.Neg()
			if movKind == entity.MovementKindSaleReturn {
				delta = line.Quantity
			}
			_, entry, err := uc.stockLedger.ApplyMovementInTx(ctx, movRepo, stockRepo, ledger.MovementInput{
				ItemID:     line.ItemID,
				LocationID: in.LocationID,
				Delta:      delta,
				Kind:       movKind,
				Ref:        entity.DocumentRef{Type: docKind, ID: number},
				UserID:     in.UserID,
			}, now)
			if err != nil {
				return err
			}
			result.Movements = append(result.Movements, entry)
			total = total.Add(line.Quantity.Mul(line.UnitPrice))
		}
		result.Total = total

		// 3) Cargo (venta) o abono (devolución) al saldo del cliente.
		amount := total
		if movKind == entity.MovementKindSaleReturn {
			amount = total.Neg()
		}
		result.NewBalance, err = uc.partyLedger.PostTransactionInTx(ctx, partyRepo, in.PartyID, amount, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
