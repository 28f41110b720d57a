package memory

import (
	"context"

	"github.com/tu-usuario/almacen-core/internal/application/ledger"
	"github.com/tu-usuario/almacen-core/internal/application/partyledger"
	"github.com/tu-usuario/almacen-core/internal/application/sales"
	"github.com/tu-usuario/almacen-core/internal/application/sequencer"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

// Ensure TxRunner implementa los puertos de transacción de cada caso de uso.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ partyledger.TxRunner = (*TxRunner)(nil)
var _ sequencer.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)

// TxRunner transacciones sobre el Store: retiene el lock de escritura del
// store durante la transacción completa y revierte con snapshot si fn falla.
// Los lectores fuera de tx bloquean hasta el commit o rollback, de modo que
// nunca observan una cantidad sin su asiento, ni estado que luego se
// revierte — el mismo aislamiento que da la BD real.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run transacción del Stock Ledger.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementLogRepository,
	stockRepo repository.StockRepository,
) error) error {
	return r.inTx(ctx, func() error {
		return fn(
			&MovementLogRepo{s: r.store, inTx: true},
			&StockRepo{s: r.store, inTx: true},
		)
	})
}

// RunParty transacción del Party Balance Ledger.
func (r *TxRunner) RunParty(ctx context.Context, fn func(
	partyRepo repository.PartyAccountRepository,
) error) error {
	return r.inTx(ctx, func() error {
		return fn(&PartyAccountRepo{s: r.store, inTx: true})
	})
}

// RunSequence transacción del Document Sequencer.
func (r *TxRunner) RunSequence(ctx context.Context, fn func(
	seqRepo repository.SequenceRepository,
) error) error {
	return r.inTx(ctx, func() error {
		return fn(&SequenceRepo{s: r.store, inTx: true})
	})
}

// RunSale transacción de una operación de negocio completa.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.MovementLogRepository,
	stockRepo repository.StockRepository,
	seqRepo repository.SequenceRepository,
	partyRepo repository.PartyAccountRepository,
) error) error {
	return r.inTx(ctx, func() error {
		return fn(
			&MovementLogRepo{s: r.store, inTx: true},
			&StockRepo{s: r.store, inTx: true},
			&SequenceRepo{s: r.store, inTx: true},
			&PartyAccountRepo{s: r.store, inTx: true},
		)
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Lock de escritura durante toda la transacción: los repos atados a la
	// tx (inTx) no vuelven a tomarlo, y los sueltos esperan aquí.
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap := r.store.takeSnapshot()
	if err := fn(); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}
