package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/almacen-core/internal/application/ledger"
	"github.com/tu-usuario/almacen-core/internal/application/partyledger"
	"github.com/tu-usuario/almacen-core/internal/application/sales"
	"github.com/tu-usuario/almacen-core/internal/application/sequencer"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
	"github.com/tu-usuario/almacen-core/internal/infrastructure/memory"
	"github.com/tu-usuario/almacen-core/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/almacen-core/internal/interfaces/http"
	"github.com/tu-usuario/almacen-core/pkg/config"
	"github.com/tu-usuario/almacen-core/pkg/logger"
)

// txRunner agrupa los puertos de transacción de todos los casos de uso;
// lo implementan tanto postgres.TxRunner como memory.TxRunner.
type txRunner interface {
	ledger.TxRunner
	partyledger.TxRunner
	sequencer.TxRunner
	sales.TxRunner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		runner       txRunner
		stockRepo    repository.StockRepository
		movRepo      repository.MovementLogRepository
		partyRepo    repository.PartyAccountRepository
		itemRepo     repository.StockItemRepository
		locationRepo repository.LocationRepository
	)

	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		runner = postgres.NewTxRunner(pool)
		stockRepo = postgres.NewStockRepository(pool)
		movRepo = postgres.NewMovementLogRepository(pool)
		partyRepo = postgres.NewPartyAccountRepository(pool)
		itemRepo = postgres.NewStockItemRepository(pool)
		locationRepo = postgres.NewLocationRepository(pool)
	} else {
		// Sin BD configurada: modo demo con el almacén en memoria. Mismas
		// garantías de atomicidad, sin durabilidad.
		log.Warn().Msg("sin DATABASE_URL ni DB_HOST, usando almacén en memoria")
		store := memory.NewStore()
		runner = memory.NewTxRunner(store)
		stockRepo = memory.NewStockRepository(store)
		movRepo = memory.NewMovementLogRepository(store)
		partyRepo = memory.NewPartyAccountRepository(store)
		itemRepo = memory.NewStockItemRepository(store)
		locationRepo = memory.NewLocationRepository(store)
	}

	stockLedger := ledger.NewStockLedger(runner, itemRepo, locationRepo, stockRepo, movRepo)
	docSequencer := sequencer.NewDocumentSequencer(runner)
	partyLedger := partyledger.NewPartyLedger(runner, partyRepo)
	postSale := sales.NewPostSaleUseCase(runner, stockLedger, docSequencer, partyLedger, partyRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockLedger:  stockLedger,
		Sequencer:    docSequencer,
		PartyLedger:  partyLedger,
		PostSale:     postSale,
		ItemRepo:     itemRepo,
		LocationRepo: locationRepo,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
