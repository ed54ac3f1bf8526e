// @title        Warehouse API
// @version      1.0
// @description  Inventario de bodegas: productos, bodegas, kits y libro de movimientos.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/warehouse-api/docs"
	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/application/report"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/memory"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/warehouse-api/internal/infrastructure/pdf"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/warehouse-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/warehouse-api/internal/interfaces/http"
	"github.com/jhoicas/warehouse-api/pkg/config"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

// stores adaptadores de persistencia según DB_DRIVER.
type stores struct {
	products     repository.ProductRepository
	warehouses   repository.WarehouseRepository
	kits         repository.KitRepository
	transactions repository.TransactionRepository
	txRunner     inventory.TxRunner
	db           httpRouter.Pinger
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Bool("auth", cfg.JWT.Enabled()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	var m *metrics.Metrics
	var observer inventory.MovementObserver = inventory.NopObserver{}
	if cfg.Metrics.Enabled {
		m = metrics.New("warehouse")
		observer = m
	}

	productUC := usecase.NewProductUseCase(st.products)
	warehouseUC := usecase.NewWarehouseUseCase(st.warehouses)
	kitUC := usecase.NewKitUseCase(st.kits, st.products)
	ledger := inventory.NewLedgerUseCase(st.transactions, st.products, st.warehouses)
	resolver := inventory.NewKitResolver(st.kits, st.transactions, st.warehouses)
	registerUC := inventory.NewRegisterTransactionUseCase(
		st.txRunner, st.transactions, st.products, st.warehouses, st.kits, observer,
	)
	stockReportUC := report.NewStockReportUseCase(
		st.transactions, st.products,
		infrapdf.NewMarotoStockReport(), infraxlsx.NewStockSheet(),
		cfg.App.Name,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    10 * 1024 * 1024, // carga masiva XLSX
		ErrorHandler: httpRouter.ErrorHandler,
		// Params/Query se guardan en el almacenamiento en memoria; sin esto apuntan al buffer reutilizado
		Immutable:    true,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	var httpObserver httpRouter.HTTPObserver
	if m != nil {
		httpObserver = m
	}
	app.Use(httpRouter.RequestLogger(log.Zerolog(), httpObserver))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Warehouse API",
		}))
	}

	deps := httpRouter.RouterDeps{
		ServiceName:   cfg.App.Name,
		ProductUC:     productUC,
		WarehouseUC:   warehouseUC,
		KitUC:         kitUC,
		Ledger:        ledger,
		KitResolver:   resolver,
		Transactions:  registerUC,
		StockReport:   stockReportUC,
		ReceiptParser: infraxlsx.NewReceiptImporter(),
		DB:            st.db,
		OpenAPI:       docs.SwaggerInfo.ReadDoc,
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
	}
	if m != nil {
		deps.MetricsHandler = m.Handler()
	}
	httpRouter.Router(app, deps)

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

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.DB.Driver == config.DriverMemory {
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		repos := memory.NewRepositories(memory.NewStore())
		return &stores{
			products:     repos.Products,
			warehouses:   repos.Warehouses,
			kits:         repos.Kits,
			transactions: repos.Transactions,
			txRunner:     repos.TxRunner,
			close:        func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.DB.ConnectionString(), "up"); err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &stores{
		products:     postgres.NewProductRepository(pool),
		warehouses:   postgres.NewWarehouseRepository(pool),
		kits:         postgres.NewKitRepository(pool),
		transactions: postgres.NewTransactionRepository(pool),
		txRunner:     postgres.NewTxRunner(pool),
		db:           pool,
		close:        pool.Close,
	}, nil
}
