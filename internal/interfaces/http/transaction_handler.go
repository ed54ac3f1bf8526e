package http

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// ReceiptParser lee la planilla de carga masiva de entradas (lo implementa xlsx.ReceiptImporter).
type ReceiptParser interface {
	Parse(r io.Reader) ([]inventory.ReceiptRow, error)
	Template() ([]byte, error)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TransactionHandler maneja el libro de movimientos.
type TransactionHandler struct {
	uc     *inventory.RegisterTransactionUseCase
	ledger *inventory.LedgerUseCase
	parser ReceiptParser
}

// NewTransactionHandler construye el handler. parser puede ser nil (sin carga masiva).
func NewTransactionHandler(uc *inventory.RegisterTransactionUseCase, ledger *inventory.LedgerUseCase, parser ReceiptParser) *TransactionHandler {
	return &TransactionHandler{uc: uc, ledger: ledger, parser: parser}
}

// Create godoc
// @Summary      Registrar movimiento
// @Description  direction 0 = entrada, 1 = salida. Una salida mayor al stock responde 409 con available.
// @Description  kitId y kitQuantity etiquetan una salida de un producto que compone el kit.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "Movimiento"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Register(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// IssueKit godoc
// @Summary      Despachar kits
// @Description  Una salida por componente, todas con el mismo batchId. Todo o nada.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueKitRequest  true  "Kit, bodega y cantidad"
// @Success      200   {object}  dto.IssueKitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /transactions/issue-kit [post]
func (h *TransactionHandler) IssueKit(c *fiber.Ctx) error {
	var in dto.IssueKitRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.IssueKitFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Import godoc
// @Summary      Carga masiva de entradas desde XLSX
// @Tags         transactions
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Planilla .xlsx"
// @Success      201   {object}  dto.ImportReceiptsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /transactions/import [post]
func (h *TransactionHandler) Import(c *fiber.Ctx) error {
	if h.parser == nil {
		return fiber.ErrNotFound
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidInput, Message: "campo file requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()

	rows, err := h.parser.Parse(f)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ImportReceipts(c.UserContext(), GetUserID(c), rows)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ImportTemplate godoc
// @Summary      Plantilla de carga masiva
// @Tags         transactions
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /transactions/import/template [get]
func (h *TransactionHandler) ImportTemplate(c *fiber.Ctx) error {
	if h.parser == nil {
		return fiber.ErrNotFound
	}
	data, err := h.parser.Template()
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="plantilla_entradas.xlsx"`)
	return c.Send(data)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        q            query  string  false  "Búsqueda en la nota"
// @Param        direction    query  int     false  "0 entrada, 1 salida"
// @Param        productId    query  string  false  "Producto"
// @Param        warehouseId  query  string  false  "Bodega"
// @Param        kitId        query  string  false  "Kit"
// @Param        skip         query  int     false  "Filas a saltar"  default(0)
// @Param        limit        query  int     false  "Límite"          default(50)
// @Success      200  {object}  dto.TransactionListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{
		Query:       c.Query("q"),
		ProductID:   c.Query("productId"),
		WarehouseID: c.Query("warehouseId"),
		KitID:       c.Query("kitId"),
	}
	if raw := c.Query("direction"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			return writeError(c, domain.ErrInvalidInput)
		}
		filter.Direction = &d
	}
	out, err := h.uc.List(c.UserContext(), filter, pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateNote godoc
// @Summary      Corregir la nota de un movimiento
// @Description  Los movimientos son inmutables salvo la nota.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.UpdateTransactionRequest  true  "Nota"
// @Success      200   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /transactions/{id} [patch]
func (h *TransactionHandler) UpdateNote(c *fiber.Ctx) error {
	var in dto.UpdateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateNote(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Kardex godoc
// @Summary      Entradas, salidas y stock de un producto en una bodega
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        warehouseId  path  string  true  "ID de la bodega"
// @Param        productId    path  string  true  "ID del producto"
// @Success      200  {object}  dto.KardexResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /transactions/inventory/{warehouseId}/{productId} [get]
func (h *TransactionHandler) Kardex(c *fiber.Ctx) error {
	out, err := h.ledger.Kardex(c.UserContext(), c.Params("warehouseId"), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
