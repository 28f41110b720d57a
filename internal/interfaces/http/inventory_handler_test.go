package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-core/internal/application/ledger"
	"github.com/tu-usuario/almacen-core/internal/application/partyledger"
	"github.com/tu-usuario/almacen-core/internal/application/sales"
	"github.com/tu-usuario/almacen-core/internal/application/sequencer"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/infrastructure/memory"
	apphttp "github.com/tu-usuario/almacen-core/internal/interfaces/http"
)

const (
	testItemID     = "item-001"
	testLocationID = "loc-001"
	testPartyID    = "cliente-001"
)

// buildAPI arma la API completa sobre el almacén en memoria, con catálogo y
// cuenta de cliente sembrados, igual que el arranque en modo demo.
func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	itemRepo := memory.NewStockItemRepository(store)
	locationRepo := memory.NewLocationRepository(store)
	stockRepo := memory.NewStockRepository(store)
	movRepo := memory.NewMovementLogRepository(store)
	partyRepo := memory.NewPartyAccountRepository(store)

	stockLedger := ledger.NewStockLedger(runner, itemRepo, locationRepo, stockRepo, movRepo)
	seq := sequencer.NewDocumentSequencer(runner)
	partyLedger := partyledger.NewPartyLedger(runner, partyRepo)
	postSale := sales.NewPostSaleUseCase(runner, stockLedger, seq, partyLedger, partyRepo)

	ctx := context.Background()
	require.NoError(t, itemRepo.Create(ctx, &entity.StockItem{ID: testItemID, Code: "SKU-001", Name: "Tornillo", CreatedAt: time.Now()}))
	require.NoError(t, locationRepo.Create(ctx, &entity.Location{ID: testLocationID, BranchID: testBranchID, Code: "BC", Name: "Bodega", CreatedAt: time.Now()}))
	require.NoError(t, partyLedger.OpenAccount(ctx, testPartyID, decimal.Zero))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		StockLedger:  stockLedger,
		Sequencer:    seq,
		PartyLedger:  partyLedger,
		PostSale:     postSale,
		ItemRepo:     itemRepo,
		LocationRepo: locationRepo,
		JWTSecret:    testJWTSecret,
	})
	return app
}

// doJSON lanza una petición con cuerpo JSON y token del rol dado.
func doJSON(t *testing.T, app *fiber.App, method, path, role string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas de inventario
// ──────────────────────────────────────────────────────────────────────────────

// Sin token todas las rutas del núcleo devuelven 401.
func TestInventory_SinToken_Retorna401(t *testing.T) {
	app := buildAPI(t)
	resp := doJSON(t, app, http.MethodPost, "/api/inventory/movements", "", fiber.Map{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestInventory_AplicarMovimientoYConsultarCantidad(t *testing.T) {
	app := buildAPI(t)

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/movements", "vendedor", fiber.Map{
		"item_id":     testItemID,
		"location_id": testLocationID,
		"delta":       "10",
		"kind":        entity.MovementKindPurchase,
		"ref_type":    "purchase",
		"ref_id":      "COM-PWD-1-2026-0001",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var mov struct {
		Quantity string `json:"quantity"`
		Entry    struct {
			QuantityAfter string `json:"quantity_after"`
			CreatedBy     string `json:"created_by"`
		} `json:"entry"`
	}
	decode(t, resp, &mov)
	assert.Equal(t, "10", mov.Quantity)
	assert.Equal(t, "10", mov.Entry.QuantityAfter)
	assert.Equal(t, testUserID, mov.Entry.CreatedBy, "el asiento registra quién lo creó")

	resp = doJSON(t, app, http.MethodGet,
		"/api/inventory/items/"+testItemID+"/locations/"+testLocationID+"/quantity", "vendedor", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var qty struct {
		Quantity string `json:"quantity"`
	}
	decode(t, resp, &qty)
	assert.Equal(t, "10", qty.Quantity)
}

func TestInventory_StockInsuficiente_Retorna409(t *testing.T) {
	app := buildAPI(t)

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/movements", "vendedor", fiber.Map{
		"item_id":     testItemID,
		"location_id": testLocationID,
		"delta":       "-5",
		"kind":        entity.MovementKindSale,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestInventory_ItemInexistente_Retorna404(t *testing.T) {
	app := buildAPI(t)

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/movements", "vendedor", fiber.Map{
		"item_id":     "no-existe",
		"location_id": testLocationID,
		"delta":       "1",
		"kind":        entity.MovementKindPurchase,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Correcciones de auditoría — RBAC
// ──────────────────────────────────────────────────────────────────────────────

func TestCorrections_VendedorBloqueado(t *testing.T) {
	app := buildAPI(t)
	resp := doJSON(t, app, http.MethodPost,
		"/api/inventory/items/"+testItemID+"/locations/"+testLocationID+"/corrections",
		"vendedor", fiber.Map{"new_quantity": "5", "remark": "conteo físico"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"las correcciones exigen rol admin o bodeguero")
}

func TestCorrections_BodegueroCorrige(t *testing.T) {
	app := buildAPI(t)
	resp := doJSON(t, app, http.MethodPost,
		"/api/inventory/items/"+testItemID+"/locations/"+testLocationID+"/corrections",
		"bodeguero", fiber.Map{"new_quantity": "5", "remark": "conteo físico encontró 5"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var entry struct {
		Kind   string `json:"kind"`
		Remark string `json:"remark"`
	}
	decode(t, resp, &entry)
	assert.Equal(t, entity.MovementKindAuditCorrection, entry.Kind)
	assert.Equal(t, "conteo físico encontró 5", entry.Remark)
}

func TestCorrections_SinRemark_Retorna400(t *testing.T) {
	app := buildAPI(t)
	resp := doJSON(t, app, http.MethodPost,
		"/api/inventory/items/"+testItemID+"/locations/"+testLocationID+"/corrections",
		"admin", fiber.Map{"new_quantity": "5"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas end-to-end sobre la API
// ──────────────────────────────────────────────────────────────────────────────

func TestSales_VentaCompleta(t *testing.T) {
	app := buildAPI(t)

	// Sembrar stock vía compra.
	resp := doJSON(t, app, http.MethodPost, "/api/inventory/movements", "bodeguero", fiber.Map{
		"item_id":     testItemID,
		"location_id": testLocationID,
		"delta":       "10",
		"kind":        entity.MovementKindPurchase,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/sales/", "vendedor", fiber.Map{
		"location_id": testLocationID,
		"party_id":    testPartyID,
		"lines": []fiber.Map{
			{"item_id": testItemID, "quantity": "3", "unit_price": "100"},
		},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var sale struct {
		Number     string `json:"number"`
		Total      string `json:"total"`
		NewBalance string `json:"new_balance"`
	}
	decode(t, resp, &sale)
	assert.Contains(t, sale.Number, "INV-"+testBranchID, "la sucursal sale del token")
	assert.Equal(t, "300", sale.Total)
	assert.Equal(t, "300", sale.NewBalance)

	// El saldo queda consultable por la ruta de contrapartes.
	resp = doJSON(t, app, http.MethodGet, "/api/parties/"+testPartyID+"/balance", "vendedor", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var bal struct {
		Balance string `json:"balance"`
	}
	decode(t, resp, &bal)
	assert.Equal(t, "300", bal.Balance)
}

// ──────────────────────────────────────────────────────────────────────────────
// Secuencias vía API
// ──────────────────────────────────────────────────────────────────────────────

func TestSequences_EmiteConsecutivo(t *testing.T) {
	app := buildAPI(t)

	for i, want := range []string{"0001", "0002"} {
		resp := doJSON(t, app, http.MethodPost, "/api/sequences/next", "admin", fiber.Map{
			"kind": entity.DocumentKindPurchase,
			"year": 2026,
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode, "emisión %d", i+1)
		var out struct {
			Number string `json:"number"`
		}
		decode(t, resp, &out)
		assert.Equal(t, "COM-"+testBranchID+"-2026-"+want, out.Number)
	}
}
