package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/memory"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/warehouse-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func buildAPI(t *testing.T, jwtSecret string) *fiber.App {
	t.Helper()
	repos := memory.NewRepositories(memory.NewStore())
	m := metrics.New("warehouse")

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler, Immutable: true})
	app.Use(apphttp.RequestLogger(zerolog.Nop(), m))
	apphttp.Router(app, apphttp.RouterDeps{
		ServiceName:    "warehouse-api-test",
		ProductUC:      usecase.NewProductUseCase(repos.Products),
		WarehouseUC:    usecase.NewWarehouseUseCase(repos.Warehouses),
		KitUC:          usecase.NewKitUseCase(repos.Kits, repos.Products),
		Ledger:         inventory.NewLedgerUseCase(repos.Transactions, repos.Products, repos.Warehouses),
		KitResolver:    inventory.NewKitResolver(repos.Kits, repos.Transactions, repos.Warehouses),
		Transactions:   inventory.NewRegisterTransactionUseCase(repos.TxRunner, repos.Transactions, repos.Products, repos.Warehouses, repos.Kits, m),
		MetricsHandler: m.Handler(),
		OpenAPI:        func() string { return `{"openapi":"test"}` },
		JWTSecret:      jwtSecret,
		JWTIssuer:      testIssuer,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body interface{}, auth string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode(t *testing.T, data []byte, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, out), string(data))
}

type catalog struct {
	productA, productB, warehouse, kit string
}

// seedCatalog crea A, B, W y el kit K = 2 x A + 3 x B vía API.
func seedCatalog(t *testing.T, app *fiber.App) catalog {
	t.Helper()
	var c catalog
	var p dto.ProductResponse

	resp, data := call(t, app, http.MethodPost, "/products", map[string]interface{}{"code": "A", "name": "Guantes", "unitCost": "1500.50"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	decode(t, data, &p)
	c.productA = p.ID

	resp, data = call(t, app, http.MethodPost, "/products", map[string]interface{}{"code": "B", "name": "Tapabocas"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	decode(t, data, &p)
	c.productB = p.ID

	var w dto.WarehouseResponse
	resp, data = call(t, app, http.MethodPost, "/warehouses", map[string]interface{}{"code": "W", "name": "Principal"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	decode(t, data, &w)
	c.warehouse = w.ID

	var k dto.KitResponse
	resp, data = call(t, app, http.MethodPost, "/kits", map[string]interface{}{"code": "K", "name": "Kit bioseguridad"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	decode(t, data, &k)
	c.kit = k.ID

	resp, data = call(t, app, http.MethodPost, "/kits/"+c.kit+"/composition", map[string]interface{}{"productId": c.productA, "quantity": 2}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	resp, data = call(t, app, http.MethodPost, "/kits/"+c.kit+"/composition", map[string]interface{}{"productId": c.productB, "quantity": 3}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	return c
}

func movement(productID, warehouseID string, direction int, qty int64) map[string]interface{} {
	return map[string]interface{}{"productId": productID, "warehouseId": warehouseID, "direction": direction, "quantity": qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// Salud y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_HealthPingYMetricas(t *testing.T) {
	app := buildAPI(t, "")

	resp, data := call(t, app, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "warehouse-api-test")

	resp, data = call(t, app, http.MethodGet, "/health/db", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "memory")

	resp, data = call(t, app, http.MethodGet, "/ping", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(data))

	resp, data = call(t, app, http.MethodGet, "/api/openapi.json", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"openapi":"test"}`, string(data))

	resp, data = call(t, app, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "warehouse_http_request_duration_seconds")
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ProductoCodigoDuplicado_Retorna409(t *testing.T) {
	app := buildAPI(t, "")
	seedCatalog(t, app)

	resp, data := call(t, app, http.MethodPost, "/products", map[string]interface{}{"code": "A", "name": "Otro"}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var e dto.ErrorResponse
	decode(t, data, &e)
	assert.Equal(t, "CONFLICT", e.Code)
}

func TestRouter_ProductoInexistente_Retorna404(t *testing.T) {
	app := buildAPI(t, "")

	resp, data := call(t, app, http.MethodGet, "/products/no-existe", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var e dto.ErrorResponse
	decode(t, data, &e)
	assert.Equal(t, "NOT_FOUND", e.Code)
}

func TestRouter_CuerpoInvalido_Retorna400(t *testing.T) {
	app := buildAPI(t, "")

	req := httptest.NewRequest(http.MethodPost, "/warehouses", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_ListadoYBusqueda(t *testing.T) {
	app := buildAPI(t, "")
	seedCatalog(t, app)

	var list dto.ProductListResponse
	resp, data := call(t, app, http.MethodGet, "/products?q=tapa&limit=10", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, data, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "B", list.Items[0].Code)
	assert.Equal(t, 10, list.Page.Limit)

	resp, data = call(t, app, http.MethodGet, "/products?limit=1000", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, data, &list)
	assert.Equal(t, dto.MaxLimit, list.Page.Limit)
	assert.Len(t, list.Items, 2)
}

func TestRouter_ComposicionYExpansion(t *testing.T) {
	app := buildAPI(t, "")
	c := seedCatalog(t, app)

	var comps []dto.KitComponentResponse
	resp, data := call(t, app, http.MethodGet, "/kits/"+c.kit+"/composition", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, data, &comps)
	require.Len(t, comps, 2)

	// Producto repetido en el kit → 409.
	resp, _ = call(t, app, http.MethodPost, "/kits/"+c.kit+"/composition", map[string]interface{}{"productId": c.productA, "quantity": 1}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var lines []dto.KitLineResponse
	resp, data = call(t, app, http.MethodGet, "/kits/"+c.kit+"/expand", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, data, &lines)
	units := map[string]int64{}
	for _, l := range lines {
		units[l.ProductID] = l.UnitsPerKit
	}
	assert.Equal(t, map[string]int64{c.productA: 2, c.productB: 3}, units)

	resp, _ = call(t, app, http.MethodGet, "/kits/no-existe/expand", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos y stock
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_EntradaSalidaYStock(t *testing.T) {
	app := buildAPI(t, "")
	c := seedCatalog(t, app)

	var onHand dto.OnHandResponse
	resp, data := call(t, app, http.MethodGet, "/inventory/"+c.productA, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, data, &onHand)
	assert.Equal(t, int64(0), onHand.OnHand)

	var tx dto.TransactionResponse
	resp, data = call(t, app, http.MethodPost, "/transactions", movement(c.productA, c.warehouse, 0, 10), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	decode(t, data, &tx)
	assert.Equal(t, "Guantes", tx.ProductName)
	assert.Equal(t, "Principal", tx.WarehouseName)

	resp, data = call(t, app, http.MethodPost, "/transactions", movement(c.productA, c.warehouse, 1, 4), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	resp, data = call(t, app, http.MethodGet, "/inventory/"+c.productA+"?warehouseId="+c.warehouse, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, data, &onHand)
	assert.Equal(t, int64(6), onHand.OnHand)
	assert.Equal(t, c.warehouse, onHand.WarehouseID)

	var kardex dto.KardexResponse
	resp, data = call(t, app, http.MethodGet, "/transactions/inventory/"+c.warehouse+"/"+c.productA, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, data, &kardex)
	assert.Equal(t, dto.KardexResponse{WarehouseID: c.warehouse, ProductID: c.productA, Stock: 6, Received: 10, Issued: 4}, kardex)
}

func TestRouter_SalidaSinStock_Retorna409ConDisponible(t *testing.T) {
	app := buildAPI(t, "")
	c := seedCatalog(t, app)

	resp, _ := call(t, app, http.MethodPost, "/transactions", movement(c.productA, c.warehouse, 0, 3), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, data := call(t, app, http.MethodPost, "/transactions", movement(c.productA, c.warehouse, 1, 5), "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var e dto.ErrorResponse
	decode(t, data, &e)
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	require.NotNil(t, e.Available)
	assert.Equal(t, int64(3), *e.Available)

	var list dto.TransactionListResponse
	resp, data = call(t, app, http.MethodGet, "/transactions?productId="+c.productA, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, data, &list)
	assert.Len(t, list.Items, 1, "la salida rechazada no debe quedar en el libro")

	resp, data = call(t, app, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `warehouse_inventory_stock_rejections_total{operation="issue"} 1`)
}

func TestRouter_MovimientoInvalido(t *testing.T) {
	app := buildAPI(t, "")
	c := seedCatalog(t, app)

	cases := map[string]map[string]interface{}{
		"direccion fuera de rango": movement(c.productA, c.warehouse, 7, 1),
		"cantidad cero":            movement(c.productA, c.warehouse, 0, 0),
		"kitId sin kitQuantity": func() map[string]interface{} {
			m := movement(c.productA, c.warehouse, 1, 1)
			m["kitId"] = c.kit
			return m
		}(),
		"sin direccion": {"productId": c.productA, "warehouseId": c.warehouse, "quantity": 1},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp, _ := call(t, app, http.MethodPost, "/transactions", body, "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	resp, _ := call(t, app, http.MethodPost, "/transactions", movement("no-existe", c.warehouse, 0, 1), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/transactions?direction=x", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_DespachoDeKit(t *testing.T) {
	app := buildAPI(t, "")
	c := seedCatalog(t, app)

	call(t, app, http.MethodPost, "/transactions", movement(c.productA, c.warehouse, 0, 10), "")
	call(t, app, http.MethodPost, "/transactions", movement(c.productB, c.warehouse, 0, 9), "")

	var issuable dto.IssuableResponse
	resp, data := call(t, app, http.MethodGet, "/kits/"+c.kit+"/issuable?warehouseId="+c.warehouse, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, data, &issuable)
	assert.Equal(t, int64(3), issuable.Issuable)

	resp, _ = call(t, app, http.MethodGet, "/kits/"+c.kit+"/issuable", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "warehouseId es obligatorio")

	// Más kits de los disponibles: 409 con available = 3 y nada escrito.
	body := map[string]interface{}{"kitId": c.kit, "warehouseId": c.warehouse, "kitQuantity": 4}
	resp, data = call(t, app, http.MethodPost, "/transactions/issue-kit", body, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var e dto.ErrorResponse
	decode(t, data, &e)
	require.NotNil(t, e.Available)
	assert.Equal(t, int64(3), *e.Available)

	body["kitQuantity"] = 2
	var out dto.IssueKitResponse
	resp, data = call(t, app, http.MethodPost, "/transactions/issue-kit", body, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	decode(t, data, &out)
	require.Len(t, out.Transactions, 2)
	assert.NotEmpty(t, out.BatchID)
	for _, tx := range out.Transactions {
		assert.Equal(t, out.BatchID, tx.BatchID)
		require.NotNil(t, tx.KitID)
		assert.Equal(t, c.kit, *tx.KitID)
		assert.Equal(t, 1, tx.Direction)
	}

	var summary []dto.StockRowResponse
	resp, data = call(t, app, http.MethodGet, "/products/inventory/summary?byWarehouse=true", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, data, &summary)
	stock := map[string]int64{}
	for _, r := range summary {
		assert.Equal(t, c.warehouse, r.WarehouseID)
		stock[r.ProductID] = r.Stock
	}
	assert.Equal(t, map[string]int64{c.productA: 6, c.productB: 3}, stock)
}

// Cada cambio de composición llega en su propia petición; el despacho siguiente debe verlo.
func TestRouter_CambiosDeComposicionEntrePeticiones(t *testing.T) {
	app := buildAPI(t, "")
	c := seedCatalog(t, app)
	call(t, app, http.MethodPost, "/transactions", movement(c.productA, c.warehouse, 0, 10), "")
	call(t, app, http.MethodPost, "/transactions", movement(c.productB, c.warehouse, 0, 9), "")

	// Otro kit con id distinto entre medio de las peticiones.
	var other dto.KitResponse
	resp, data := call(t, app, http.MethodPost, "/kits", map[string]interface{}{"code": "K2", "name": "Kit aseo"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	decode(t, data, &other)

	var comps []dto.KitComponentResponse
	resp, data = call(t, app, http.MethodGet, "/kits/"+c.kit+"/composition", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, data, &comps)
	require.Len(t, comps, 2)
	compID := map[string]string{}
	for _, cp := range comps {
		assert.Equal(t, c.kit, cp.KitID)
		compID[cp.ProductID] = cp.ID
	}

	// A pasa a 5 por kit: min(10/5, 9/3) = 2.
	resp, data = call(t, app, http.MethodPut, "/kits/"+c.kit+"/composition/"+compID[c.productA], map[string]interface{}{"quantity": 5}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	resp, _ = call(t, app, http.MethodGet, "/kits/"+other.ID+"/expand", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var issued dto.IssueKitResponse
	body := map[string]interface{}{"kitId": c.kit, "warehouseId": c.warehouse, "kitQuantity": 2}
	resp, data = call(t, app, http.MethodPost, "/transactions/issue-kit", body, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	decode(t, data, &issued)
	qty := map[string]int64{}
	for _, tx := range issued.Transactions {
		qty[tx.ProductID] = tx.Quantity
	}
	assert.Equal(t, map[string]int64{c.productA: 10, c.productB: 6}, qty)

	// Sin B el kit solo consume A.
	resp, _ = call(t, app, http.MethodDelete, "/kits/"+c.kit+"/composition/"+compID[c.productB], nil, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	call(t, app, http.MethodPost, "/transactions", movement(c.productA, c.warehouse, 0, 5), "")

	body["kitQuantity"] = 1
	resp, data = call(t, app, http.MethodPost, "/transactions/issue-kit", body, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	decode(t, data, &issued)
	require.Len(t, issued.Transactions, 1)
	assert.Equal(t, c.productA, issued.Transactions[0].ProductID)
	assert.Equal(t, int64(5), issued.Transactions[0].Quantity)

	var onHand dto.OnHandResponse
	resp, data = call(t, app, http.MethodGet, "/inventory/"+c.productB+"?warehouseId="+c.warehouse, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	decode(t, data, &onHand)
	assert.Equal(t, int64(3), onHand.OnHand)
}

func TestRouter_SalidaEtiquetadaConKit(t *testing.T) {
	app := buildAPI(t, "")
	c := seedCatalog(t, app)
	call(t, app, http.MethodPost, "/transactions", movement(c.productA, c.warehouse, 0, 4), "")

	body := movement(c.productA, c.warehouse, 1, 2)
	body["kitId"] = c.kit
	body["kitQuantity"] = 1
	var tx dto.TransactionResponse
	resp, data := call(t, app, http.MethodPost, "/transactions", body, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	decode(t, data, &tx)
	require.NotNil(t, tx.KitID)
	assert.Equal(t, c.kit, *tx.KitID)

	body["quantity"] = 3
	resp, data = call(t, app, http.MethodPost, "/transactions", body, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var e dto.ErrorResponse
	decode(t, data, &e)
	require.NotNil(t, e.Available)
	assert.Equal(t, int64(2), *e.Available)

	in := movement(c.productA, c.warehouse, 0, 1)
	in["kitId"] = c.kit
	in["kitQuantity"] = 1
	resp, _ = call(t, app, http.MethodPost, "/transactions", in, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "una entrada no lleva kit")
}

func TestRouter_CorreccionDeNota(t *testing.T) {
	app := buildAPI(t, "")
	c := seedCatalog(t, app)

	var tx dto.TransactionResponse
	_, data := call(t, app, http.MethodPost, "/transactions", movement(c.productA, c.warehouse, 0, 1), "")
	decode(t, data, &tx)

	resp, data := call(t, app, http.MethodPatch, "/transactions/"+tx.ID, map[string]interface{}{"note": "remisión 123"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	decode(t, data, &tx)
	assert.Equal(t, "remisión 123", tx.Note)
	assert.Equal(t, int64(1), tx.Quantity)

	resp, _ = call(t, app, http.MethodPatch, "/transactions/"+tx.ID, map[string]interface{}{}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/transactions/no-existe", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación activa
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ConJWT_ExigeTokenYRol(t *testing.T) {
	app := buildAPI(t, testJWTSecret)

	resp, _ := call(t, app, http.MethodGet, "/products", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/products", nil, tokenForRole(t, "consulta"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := map[string]interface{}{"code": "A", "name": "Guantes"}
	resp, _ = call(t, app, http.MethodPost, "/products", body, tokenForRole(t, "consulta"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var p dto.ProductResponse
	resp, data := call(t, app, http.MethodPost, "/products", body, tokenForRole(t, "bodeguero"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	decode(t, data, &p)
	assert.Equal(t, testUserID, p.CreatedBy, "la auditoría toma el usuario del token")

	resp, _ = call(t, app, http.MethodDelete, "/products/"+p.ID, nil, tokenForRole(t, "bodeguero"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = call(t, app, http.MethodDelete, "/products/"+p.ID, nil, tokenForRole(t, "admin"))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// La salud queda abierta.
	resp, _ = call(t, app, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
