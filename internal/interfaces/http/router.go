package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/application/report"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName    string
	ProductUC      *usecase.ProductUseCase
	WarehouseUC    *usecase.WarehouseUseCase
	KitUC          *usecase.KitUseCase
	Ledger         *inventory.LedgerUseCase
	KitResolver    *inventory.KitResolver
	Transactions   *inventory.RegisterTransactionUseCase
	StockReport    *report.StockReportUseCase // opcional
	ReceiptParser  ReceiptParser              // opcional
	DB             Pinger                     // nil con driver memory
	MetricsHandler http.Handler               // nil deshabilita /metrics
	OpenAPI        func() string              // documento OpenAPI servido en /api/openapi.json
	JWTSecret      string                     // vacío = sin autenticación
	JWTIssuer      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	health := NewHealthHandler(deps.ServiceName, deps.DB)
	app.Get("/health", health.Health)
	app.Get("/health/db", health.DB)
	app.Get("/ping", health.Ping)

	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}
	if deps.OpenAPI != nil {
		app.Get("/api/openapi.json", func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(deps.OpenAPI())
		})
	}

	// Con JWT_SECRET vacío todas las rutas quedan abiertas (desarrollo).
	authOn := deps.JWTSecret != ""
	protected := app.Group("/", OptionalAuth(deps.JWTSecret, deps.JWTIssuer))
	writer := guard(authOn, RoleAdmin, RoleBodeguero)
	admin := guard(authOn, RoleAdmin)

	// Products; el resumen va antes de /:id.
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/inventory/summary", inventoryHandler.Summary)
	products.Post("/", writer, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", writer, productHandler.Update)
	products.Delete("/:id", admin, productHandler.Delete)

	protected.Get("/inventory/:productId", inventoryHandler.OnHand)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", writer, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", writer, warehouseHandler.Update)
	warehouses.Delete("/:id", admin, warehouseHandler.Delete)

	// Kits y composición
	kits := protected.Group("/kits")
	kitHandler := NewKitHandler(deps.KitUC, deps.KitResolver)
	kits.Post("/", writer, kitHandler.Create)
	kits.Get("/", kitHandler.List)
	kits.Get("/:id", kitHandler.GetByID)
	kits.Put("/:id", writer, kitHandler.Update)
	kits.Delete("/:id", admin, kitHandler.Delete)
	kits.Get("/:id/expand", kitHandler.Expand)
	kits.Get("/:id/issuable", kitHandler.Issuable)
	kits.Get("/:id/composition", kitHandler.ListComposition)
	kits.Post("/:id/composition", writer, kitHandler.AddComponent)
	kits.Put("/:id/composition/:compId", writer, kitHandler.UpdateComponent)
	kits.Delete("/:id/composition/:compId", writer, kitHandler.DeleteComponent)

	// Transactions; las rutas fijas antes de /:id.
	txs := protected.Group("/transactions")
	txHandler := NewTransactionHandler(deps.Transactions, deps.Ledger, deps.ReceiptParser)
	txs.Post("/", writer, txHandler.Create)
	txs.Get("/", txHandler.List)
	txs.Post("/issue-kit", writer, txHandler.IssueKit)
	txs.Post("/import", writer, txHandler.Import)
	txs.Get("/import/template", txHandler.ImportTemplate)
	txs.Get("/inventory/:warehouseId/:productId", txHandler.Kardex)
	txs.Get("/:id", txHandler.GetByID)
	txs.Patch("/:id", writer, txHandler.UpdateNote)

	if deps.StockReport != nil {
		reports := protected.Group("/reports")
		reportHandler := NewReportHandler(deps.StockReport)
		reports.Get("/stock.pdf", reportHandler.StockPDF)
		reports.Get("/stock.xlsx", reportHandler.StockXLSX)
	}
}

// guard aplica RequireRole solo cuando la autenticación está activa.
func guard(authOn bool, roles ...string) fiber.Handler {
	if !authOn {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return RequireRole(roles...)
}
