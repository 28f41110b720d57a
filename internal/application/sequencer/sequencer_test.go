package sequencer_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-core/internal/application/sequencer"
	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/infrastructure/memory"
)

const testBranch = "PWD-1"

func newSequencer() *sequencer.DocumentSequencer {
	return sequencer.NewDocumentSequencer(memory.NewTxRunner(memory.NewStore()))
}

// ──────────────────────────────────────────────────────────────────────────────
// Format
// ──────────────────────────────────────────────────────────────────────────────

func TestFormat(t *testing.T) {
	assert.Equal(t, "INV-PWD-1-2026-0001",
		sequencer.Format(entity.DocumentKindInvoice, testBranch, 2026, 1))
	assert.Equal(t, "DEV-PWD-1-2026-0042",
		sequencer.Format(entity.DocumentKindSaleReturn, testBranch, 2026, 42))
	// Más de 9999 documentos: el consecutivo crece de ancho, no se reinicia.
	assert.Equal(t, "COM-PWD-1-2026-12345",
		sequencer.Format(entity.DocumentKindPurchase, testBranch, 2026, 12345))
}

// ──────────────────────────────────────────────────────────────────────────────
// NextNumber — emisión exactamente-una-vez
// ──────────────────────────────────────────────────────────────────────────────

func TestNextNumber_Consecutivo(t *testing.T) {
	seq := newSequencer()
	ctx := context.Background()

	first, err := seq.NextNumber(ctx, testBranch, entity.DocumentKindInvoice, 2026)
	require.NoError(t, err)
	second, err := seq.NextNumber(ctx, testBranch, entity.DocumentKindInvoice, 2026)
	require.NoError(t, err)

	assert.Equal(t, "INV-PWD-1-2026-0001", first)
	assert.Equal(t, "INV-PWD-1-2026-0002", second)
}

func TestNextNumber_ScopeInvalido(t *testing.T) {
	seq := newSequencer()
	ctx := context.Background()

	_, err := seq.NextNumber(ctx, "", entity.DocumentKindInvoice, 2026)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sucursal vacía")

	_, err = seq.NextNumber(ctx, testBranch, "recibo-cafetería", 2026)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "clase desconocida")

	_, err = seq.NextNumber(ctx, testBranch, entity.DocumentKindInvoice, 1999)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "año fuera de rango")
}

// 100 emisiones concurrentes sobre el mismo scope: 100 números distintos y
// contiguos, sin duplicados ni huecos.
func TestNextNumber_ConcurrenciaSinDuplicadosNiHuecos(t *testing.T) {
	seq := newSequencer()
	ctx := context.Background()

	const n = 100
	numbers := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			num, err := seq.NextNumber(ctx, testBranch, entity.DocumentKindInvoice, 2026)
			assert.NoError(t, err)
			numbers[i] = num
		}(i)
	}
	wg.Wait()

	sort.Strings(numbers)
	for i := 0; i < n; i++ {
		expected := sequencer.Format(entity.DocumentKindInvoice, testBranch, 2026, int64(i+1))
		assert.Equal(t, expected, numbers[i], "la serie debe ser 1..%d contigua", n)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Scopes independientes
// ──────────────────────────────────────────────────────────────────────────────

// Cada (sucursal, clase, año) lleva su propio contador: emitir en un scope no
// mueve los demás.
func TestNextNumber_ScopesIndependientes(t *testing.T) {
	seq := newSequencer()
	ctx := context.Background()

	inv, err := seq.NextNumber(ctx, testBranch, entity.DocumentKindInvoice, 2026)
	require.NoError(t, err)
	dev, err := seq.NextNumber(ctx, testBranch, entity.DocumentKindSaleReturn, 2026)
	require.NoError(t, err)
	otra, err := seq.NextNumber(ctx, "PWD-2", entity.DocumentKindInvoice, 2026)
	require.NoError(t, err)

	assert.Equal(t, "INV-PWD-1-2026-0001", inv)
	assert.Equal(t, "DEV-PWD-1-2026-0001", dev)
	assert.Equal(t, "INV-PWD-2-2026-0001", otra)
}

// El cambio de año arranca un contador fresco; la serie del año cerrado no se
// renumera.
func TestNextNumber_CambioDeAno(t *testing.T) {
	seq := newSequencer()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := seq.NextNumber(ctx, testBranch, entity.DocumentKindInvoice, 2025)
		require.NoError(t, err)
	}

	nuevo, err := seq.NextNumber(ctx, testBranch, entity.DocumentKindInvoice, 2026)
	require.NoError(t, err)
	assert.Equal(t, "INV-PWD-1-2026-0001", nuevo, "año nuevo, serie desde 1")

	viejo, err := seq.NextNumber(ctx, testBranch, entity.DocumentKindInvoice, 2025)
	require.NoError(t, err)
	assert.Equal(t, "INV-PWD-1-2025-0004", viejo, "la serie del año anterior continúa donde quedó")
}
