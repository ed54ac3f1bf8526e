package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-api/internal/application/inventory"
)

// InventoryHandler consultas de existencias derivadas del libro de movimientos.
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// OnHand godoc
// @Summary      Stock de un producto
// @Description  Sin warehouseId suma todas las bodegas. Sin movimientos el stock es 0.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId    path   string  true   "ID del producto"
// @Param        warehouseId  query  string  false  "ID de la bodega"
// @Success      200  {object}  dto.OnHandResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /inventory/{productId} [get]
func (h *InventoryHandler) OnHand(c *fiber.Ctx) error {
	out, err := h.ledger.OnHand(c.UserContext(), c.Params("productId"), c.Query("warehouseId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de existencias
// @Description  Una fila por producto (o producto y bodega) con al menos un movimiento.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        byWarehouse  query  bool  false  "Desglosar por bodega"
// @Success      200  {array}  dto.StockRowResponse
// @Router       /products/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	out, err := h.ledger.StockSummary(c.UserContext(), c.QueryBool("byWarehouse", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
