package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
	"github.com/tu-usuario/almacen-core/internal/infrastructure/memory"
)

const (
	testItemID     = "item-001"
	testLocationID = "loc-001"
)

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento: lectores fuera de tx nunca ven estado sin confirmar
// ──────────────────────────────────────────────────────────────────────────────

// Un lector suelto que llega mientras una transacción está en vuelo bloquea
// hasta el rollback y lee el estado original, nunca la escritura revertida.
func TestTxRunner_LectorNoVeEstadoSinConfirmar(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	outside := memory.NewStockRepository(store)
	ctx := context.Background()

	errAbort := errors.New("abortar la transacción")
	read := make(chan decimal.Decimal, 1)

	err := runner.Run(ctx, func(
		movRepo repository.MovementLogRepository,
		stockRepo repository.StockRepository,
	) error {
		require.NoError(t, stockRepo.EnsureExists(ctx, testItemID, testLocationID))
		stock, err := stockRepo.GetForUpdate(ctx, testItemID, testLocationID)
		require.NoError(t, err)
		stock.Quantity = decimal.NewFromInt(99)
		require.NoError(t, stockRepo.Upsert(ctx, stock))

		// Lector fuera de la tx mientras la escritura sigue sin confirmar.
		go func() {
			s, err := outside.Get(ctx, testItemID, testLocationID)
			assert.NoError(t, err)
			read <- s.Quantity
		}()

		// Si el lector no bloqueara, en esta ventana ya habría leído el 99.
		select {
		case q := <-read:
			t.Errorf("el lector observó estado sin confirmar: %s", q)
		case <-time.After(50 * time.Millisecond):
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	q := <-read
	assert.True(t, q.IsZero(), "tras el rollback el lector debe ver la cantidad original")
}

// El rollback revierte todo lo escrito dentro de la tx: cantidad, asientos y
// contadores quedan como antes.
func TestTxRunner_RollbackRevierteTodo(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	ctx := context.Background()

	errAbort := errors.New("abortar")
	err := runner.RunSale(ctx, func(
		movRepo repository.MovementLogRepository,
		stockRepo repository.StockRepository,
		seqRepo repository.SequenceRepository,
		partyRepo repository.PartyAccountRepository,
	) error {
		require.NoError(t, stockRepo.EnsureExists(ctx, testItemID, testLocationID))
		require.NoError(t, movRepo.Append(ctx, &entity.MovementEntry{
			ItemID: testItemID, LocationID: testLocationID,
			Delta: decimal.NewFromInt(5), Kind: entity.MovementKindPurchase,
		}))
		_, err := seqRepo.NextValue(ctx, "PWD-1", entity.DocumentKindInvoice, 2026)
		require.NoError(t, err)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	entries, err := memory.NewMovementLogRepository(store).ListRecent(ctx, testItemID, testLocationID, 10)
	require.NoError(t, err)
	assert.Empty(t, entries, "el asiento no debe sobrevivir al rollback")

	seq, err := memory.NewSequenceRepository(store).Get(ctx, "PWD-1", entity.DocumentKindInvoice, 2026)
	require.NoError(t, err)
	assert.Nil(t, seq, "el contador no debe consumirse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Upsert no reescribe la entrada del caller
// ──────────────────────────────────────────────────────────────────────────────

func TestStockRepo_UpsertNoMutaLaEntrada(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewStockRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &entity.Stock{
		ItemID: testItemID, LocationID: testLocationID,
		Quantity: decimal.NewFromInt(5), OpeningQuantity: decimal.NewFromInt(5),
	}))

	in := &entity.Stock{
		ItemID: testItemID, LocationID: testLocationID,
		Quantity: decimal.NewFromInt(8), OpeningQuantity: decimal.NewFromInt(777),
	}
	require.NoError(t, repo.Upsert(ctx, in))
	assert.True(t, in.OpeningQuantity.Equal(decimal.NewFromInt(777)),
		"el adaptador no debe reescribir el struct del caller")

	stored, err := repo.Get(ctx, testItemID, testLocationID)
	require.NoError(t, err)
	assert.True(t, stored.Quantity.Equal(decimal.NewFromInt(8)))
	assert.True(t, stored.OpeningQuantity.Equal(decimal.NewFromInt(5)),
		"opening_quantity es inmutable tras crear la fila")
}

func TestPartyAccountRepo_UpsertNoMutaLaEntrada(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewPartyAccountRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.PartyAccount{
		PartyID: "cliente-001", OpeningBalance: decimal.NewFromInt(10), Balance: decimal.NewFromInt(10),
	}))

	in := &entity.PartyAccount{
		PartyID: "cliente-001", OpeningBalance: decimal.NewFromInt(777), Balance: decimal.NewFromInt(40),
	}
	require.NoError(t, repo.Upsert(ctx, in))
	assert.True(t, in.OpeningBalance.Equal(decimal.NewFromInt(777)),
		"el adaptador no debe reescribir el struct del caller")

	stored, err := repo.Get(ctx, "cliente-001")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Balance.Equal(decimal.NewFromInt(40)))
	assert.True(t, stored.OpeningBalance.Equal(decimal.NewFromInt(10)),
		"opening_balance es inmutable tras abrir la cuenta")
}
