package partyledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con el repositorio de cuentas
// atado a esa tx. El caller persiste el documento origen (pago, factura) en
// la misma unidad de trabajo.
type TxRunner interface {
	RunParty(ctx context.Context, fn func(partyRepo repository.PartyAccountRepository) error) error
}

// PartyLedger mantiene el saldo corriente por contraparte. El saldo se muta
// únicamente registrando transacciones firmadas por esta vía; las ediciones
// directas del campo quedan prohibidas. Registros concurrentes sobre la misma
// contraparte serializan con bloqueo de fila, igual que el stock.
type PartyLedger struct {
	txRunner  TxRunner
	partyRepo repository.PartyAccountRepository // lecturas fuera de tx
}

// NewPartyLedger construye el caso de uso.
func NewPartyLedger(txRunner TxRunner, partyRepo repository.PartyAccountRepository) *PartyLedger {
	return &PartyLedger{txRunner: txRunner, partyRepo: partyRepo}
}

// OpenAccount abre la cuenta de una contraparte con su saldo inicial.
func (uc *PartyLedger) OpenAccount(ctx context.Context, partyID string, openingBalance decimal.Decimal) error {
	if partyID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunParty(ctx, func(partyRepo repository.PartyAccountRepository) error {
		existing, err := partyRepo.Get(ctx, partyID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrInvalidInput
		}
		return partyRepo.Create(ctx, &entity.PartyAccount{
			PartyID:        partyID,
			OpeningBalance: openingBalance,
			Balance:        openingBalance,
			UpdatedAt:      time.Now(),
		})
	})
}

// PostTransaction registra un monto firmado contra la contraparte y devuelve
// el nuevo saldo. ref identifica el documento origen; su detalle lo persiste
// el caller en la misma unidad de trabajo (este ledger solo guarda el saldo
// derivado). Signo: positivo = aumenta lo que la contraparte debe.
func (uc *PartyLedger) PostTransaction(ctx context.Context, partyID string, amount decimal.Decimal, ref entity.DocumentRef) (decimal.Decimal, error) {
	if partyID == "" || amount.IsZero() {
		return decimal.Zero, domain.ErrInvalidInput
	}
	now := time.Now()
	var balance decimal.Decimal
	err := uc.txRunner.RunParty(ctx, func(partyRepo repository.PartyAccountRepository) error {
		var err error
		balance, err = uc.PostTransactionInTx(ctx, partyRepo, partyID, amount, now)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// PostTransactionInTx registra usando el repositorio del caller (misma
// transacción). Lo usan operaciones que además persisten el documento, como
// el registro de una venta.
func (uc *PartyLedger) PostTransactionInTx(ctx context.Context, partyRepo repository.PartyAccountRepository, partyID string, amount decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	account, err := partyRepo.GetForUpdate(ctx, partyID)
	if err != nil {
		return decimal.Zero, err
	}
	if account == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	account.Balance = account.Balance.Add(amount)
	account.UpdatedAt = now
	if err := partyRepo.Upsert(ctx, account); err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// ReverseTransaction anula un registro previo aplicando el monto inverso por
// la misma vía de entrada. Registrar y luego revertir deja el saldo original.
func (uc *PartyLedger) ReverseTransaction(ctx context.Context, partyID string, amount decimal.Decimal, ref entity.DocumentRef) (decimal.Decimal, error) {
	return uc.PostTransaction(ctx, partyID, amount.Neg(), ref)
}

// GetBalance devuelve el saldo actual de la contraparte.
func (uc *PartyLedger) GetBalance(ctx context.Context, partyID string) (decimal.Decimal, error) {
	if partyID == "" {
		return decimal.Zero, domain.ErrInvalidInput
	}
	account, err := uc.partyRepo.Get(ctx, partyID)
	if err != nil {
		return decimal.Zero, err
	}
	if account == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	return account.Balance, nil
}
