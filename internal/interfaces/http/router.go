package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-core/internal/application/ledger"
	"github.com/tu-usuario/almacen-core/internal/application/partyledger"
	"github.com/tu-usuario/almacen-core/internal/application/sales"
	"github.com/tu-usuario/almacen-core/internal/application/sequencer"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockLedger  *ledger.StockLedger
	Sequencer    *sequencer.DocumentSequencer
	PartyLedger  *partyledger.PartyLedger
	PostSale     *sales.PostSaleUseCase
	ItemRepo     repository.StockItemRepository
	LocationRepo repository.LocationRepository
	JWTSecret    string
}

// Router registra las rutas de la API. Todo el núcleo es protegido: la
// emisión de tokens vive en el servicio de identidad.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo mínimo (protegido): sembrado de ítems y ubicaciones
	catalogHandler := NewCatalogHandler(deps.ItemRepo, deps.LocationRepo)
	items := protected.Group("/items")
	items.Post("/", catalogHandler.CreateItem)
	items.Get("/:id", catalogHandler.GetItem)
	locations := protected.Group("/locations")
	locations.Post("/", catalogHandler.CreateLocation)

	// Stock Ledger (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.StockLedger)
	invGroup.Post("/movements", inventoryHandler.ApplyMovement)
	invGroup.Get("/items/:item_id/locations/:location_id/quantity", inventoryHandler.GetQuantity)
	invGroup.Get("/items/:item_id/locations/:location_id/movements", inventoryHandler.ListMovements)
	invGroup.Get("/items/:item_id/locations/:location_id/reconcile", inventoryHandler.Reconcile)
	// Las correcciones de auditoría exigen un rol con privilegio.
	invGroup.Post("/items/:item_id/locations/:location_id/corrections",
		RequireRole("admin", "bodeguero"), inventoryHandler.CorrectQuantity)

	// Document Sequencer (protegido)
	sequences := protected.Group("/sequences")
	sequenceHandler := NewSequenceHandler(deps.Sequencer)
	sequences.Post("/next", sequenceHandler.NextNumber)

	// Party Balance Ledger (protegido)
	parties := protected.Group("/parties")
	partyHandler := NewPartyHandler(deps.PartyLedger)
	parties.Post("/:party_id/account", partyHandler.OpenAccount)
	parties.Post("/:party_id/transactions", partyHandler.PostTransaction)
	parties.Get("/:party_id/balance", partyHandler.GetBalance)

	// Ventas y devoluciones (protegido)
	salesGroup := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.PostSale)
	salesGroup.Post("/", salesHandler.PostSale)
	salesGroup.Post("/returns", salesHandler.PostSaleReturn)
}
