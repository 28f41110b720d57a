package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/almacen-core/internal/application/ledger"
	"github.com/tu-usuario/almacen-core/internal/application/partyledger"
	"github.com/tu-usuario/almacen-core/internal/application/sales"
	"github.com/tu-usuario/almacen-core/internal/application/sequencer"
	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

// Ensure TxRunner implementa los puertos de transacción de cada caso de uso.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ partyledger.TxRunner = (*TxRunner)(nil)
var _ sequencer.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)

// Reintentos ante conflicto de serialización o deadlock.
const (
	txMaxAttempts  = 3
	txRetryBackoff = 25 * time.Millisecond
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con
// Commit/Rollback. Los conflictos de serialización se reintentan con backoff
// acotado antes de reportar ErrConcurrentModification al caller.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run transacción del Stock Ledger: log de movimientos + stock.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementLogRepository,
	stockRepo repository.StockRepository,
) error) error {
	return r.withRetry(ctx, func(tx pgx.Tx) error {
		return fn(NewMovementLogRepository(tx), NewStockRepository(tx))
	})
}

// RunParty transacción del Party Balance Ledger.
func (r *TxRunner) RunParty(ctx context.Context, fn func(
	partyRepo repository.PartyAccountRepository,
) error) error {
	return r.withRetry(ctx, func(tx pgx.Tx) error {
		return fn(NewPartyAccountRepository(tx))
	})
}

// RunSequence transacción del Document Sequencer.
func (r *TxRunner) RunSequence(ctx context.Context, fn func(
	seqRepo repository.SequenceRepository,
) error) error {
	return r.withRetry(ctx, func(tx pgx.Tx) error {
		return fn(NewSequenceRepository(tx))
	})
}

// RunSale transacción de una operación de negocio completa: numerador,
// movimientos por línea y saldo de la contraparte en una sola unidad.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.MovementLogRepository,
	stockRepo repository.StockRepository,
	seqRepo repository.SequenceRepository,
	partyRepo repository.PartyAccountRepository,
) error) error {
	return r.withRetry(ctx, func(tx pgx.Tx) error {
		return fn(
			NewMovementLogRepository(tx),
			NewStockRepository(tx),
			NewSequenceRepository(tx),
			NewPartyAccountRepository(tx),
		)
	})
}

// withRetry ejecuta la transacción completa hasta txMaxAttempts veces cuando
// el fallo es reintentable. Errores de negocio (stock insuficiente, etc.) no
// se reintentan: salen al caller en el primer intento.
func (r *TxRunner) withRetry(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var lastErr error
	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
		select {
		case <-time.After(txRetryBackoff * time.Duration(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrConcurrentModification, lastErr)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
