package partyledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-core/internal/application/partyledger"
	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/infrastructure/memory"
)

const testPartyID = "cliente-001"

var testRef = entity.DocumentRef{Type: "invoice", ID: "INV-PWD-1-2026-0001"}

func newPartyLedger() *partyledger.PartyLedger {
	store := memory.NewStore()
	return partyledger.NewPartyLedger(memory.NewTxRunner(store), memory.NewPartyAccountRepository(store))
}

// ──────────────────────────────────────────────────────────────────────────────
// OpenAccount
// ──────────────────────────────────────────────────────────────────────────────

func TestOpenAccount_ConSaldoInicial(t *testing.T) {
	uc := newPartyLedger()
	ctx := context.Background()

	require.NoError(t, uc.OpenAccount(ctx, testPartyID, decimal.NewFromInt(100)))

	balance, err := uc.GetBalance(ctx, testPartyID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(100)))
}

func TestOpenAccount_Duplicada(t *testing.T) {
	uc := newPartyLedger()
	ctx := context.Background()

	require.NoError(t, uc.OpenAccount(ctx, testPartyID, decimal.Zero))
	err := uc.OpenAccount(ctx, testPartyID, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "abrir dos veces la misma cuenta debe rechazarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// PostTransaction — única vía de mutación del saldo
// ──────────────────────────────────────────────────────────────────────────────

func TestPostTransaction_ActualizaSaldo(t *testing.T) {
	uc := newPartyLedger()
	ctx := context.Background()
	require.NoError(t, uc.OpenAccount(ctx, testPartyID, decimal.Zero))

	// Positivo = la contraparte debe más al negocio (cargo por factura).
	balance, err := uc.PostTransaction(ctx, testPartyID, decimal.NewFromInt(250), testRef)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(250)))

	// Negativo = pago recibido.
	balance, err = uc.PostTransaction(ctx, testPartyID, decimal.NewFromInt(-100),
		entity.DocumentRef{Type: "payment", ID: "PAY-001"})
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(150)))
}

func TestPostTransaction_CuentaInexistente(t *testing.T) {
	uc := newPartyLedger()
	_, err := uc.PostTransaction(context.Background(), "fantasma", decimal.NewFromInt(10), testRef)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostTransaction_MontoCero(t *testing.T) {
	uc := newPartyLedger()
	ctx := context.Background()
	require.NoError(t, uc.OpenAccount(ctx, testPartyID, decimal.Zero))

	_, err := uc.PostTransaction(ctx, testPartyID, decimal.Zero, testRef)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto cero no registra nada")
}

// Registrar y luego revertir con el mismo monto deja el saldo original exacto.
func TestReverseTransaction_RestauraSaldoExacto(t *testing.T) {
	uc := newPartyLedger()
	ctx := context.Background()
	opening := decimal.RequireFromString("73.25")
	require.NoError(t, uc.OpenAccount(ctx, testPartyID, opening))

	amount := decimal.RequireFromString("19.99")
	_, err := uc.PostTransaction(ctx, testPartyID, amount, testRef)
	require.NoError(t, err)

	balance, err := uc.ReverseTransaction(ctx, testPartyID, amount, testRef)
	require.NoError(t, err)
	assert.True(t, balance.Equal(opening), "registro + reverso = saldo original")
}

// Registros concurrentes sobre la misma cuenta serializan; ninguno se pierde.
func TestPostTransaction_Concurrencia(t *testing.T) {
	uc := newPartyLedger()
	ctx := context.Background()
	require.NoError(t, uc.OpenAccount(ctx, testPartyID, decimal.Zero))

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.PostTransaction(ctx, testPartyID, decimal.NewFromInt(2), testRef)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	balance, err := uc.GetBalance(ctx, testPartyID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(2*n)), "ningún registro debe perderse")
}

func TestGetBalance_CuentaInexistente(t *testing.T) {
	uc := newPartyLedger()
	_, err := uc.GetBalance(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
