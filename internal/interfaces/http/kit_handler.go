package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/domain"
)

// KitHandler maneja kits, su composición y las consultas de expansión y disponibilidad.
type KitHandler struct {
	uc       *usecase.KitUseCase
	resolver *inventory.KitResolver
}

// NewKitHandler construye el handler.
func NewKitHandler(uc *usecase.KitUseCase, resolver *inventory.KitResolver) *KitHandler {
	return &KitHandler{uc: uc, resolver: resolver}
}

// Create godoc
// @Summary      Crear kit
// @Tags         kits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateKitRequest  true  "Datos del kit"
// @Success      201   {object}  dto.KitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /kits [post]
func (h *KitHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateKitRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener kit por ID
// @Tags         kits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del kit"
// @Success      200  {object}  dto.KitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /kits/{id} [get]
func (h *KitHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar kits
// @Tags         kits
// @Security     Bearer
// @Produce      json
// @Param        q      query  string  false  "Búsqueda"
// @Param        skip   query  int     false  "Filas a saltar"  default(0)
// @Param        limit  query  int     false  "Límite"          default(50)
// @Success      200    {object}  dto.KitListResponse
// @Router       /kits [get]
func (h *KitHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("q"), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar kit
// @Tags         kits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del kit"
// @Param        body  body  dto.UpdateKitRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.KitResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /kits/{id} [put]
func (h *KitHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateKitRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar kit
// @Description  Borra el kit y su composición. Si ya hay movimientos del kit responde 409.
// @Tags         kits
// @Security     Bearer
// @Param        id   path  string  true  "ID del kit"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /kits/{id} [delete]
func (h *KitHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListComposition godoc
// @Summary      Composición del kit
// @Tags         kits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del kit"
// @Success      200  {array}   dto.KitComponentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /kits/{id}/composition [get]
func (h *KitHandler) ListComposition(c *fiber.Ctx) error {
	out, err := h.uc.ListComposition(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddComponent godoc
// @Summary      Agregar producto al kit
// @Tags         kits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del kit"
// @Param        body  body  dto.AddKitComponentRequest  true  "Producto y unidades por kit"
// @Success      201   {object}  dto.KitComponentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /kits/{id}/composition [post]
func (h *KitHandler) AddComponent(c *fiber.Ctx) error {
	var in dto.AddKitComponentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddComponent(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateComponent godoc
// @Summary      Cambiar unidades de un componente
// @Tags         kits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "ID del kit"
// @Param        compId  path  string  true  "ID del componente"
// @Param        body    body  dto.UpdateKitComponentRequest  true  "Nueva cantidad"
// @Success      200     {object}  dto.KitComponentResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /kits/{id}/composition/{compId} [put]
func (h *KitHandler) UpdateComponent(c *fiber.Ctx) error {
	var in dto.UpdateKitComponentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateComponent(c.UserContext(), GetUserID(c), c.Params("id"), c.Params("compId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteComponent godoc
// @Summary      Quitar componente del kit
// @Tags         kits
// @Security     Bearer
// @Param        id      path  string  true  "ID del kit"
// @Param        compId  path  string  true  "ID del componente"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /kits/{id}/composition/{compId} [delete]
func (h *KitHandler) DeleteComponent(c *fiber.Ctx) error {
	if err := h.uc.DeleteComponent(c.UserContext(), c.Params("id"), c.Params("compId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Expand godoc
// @Summary      Expandir kit
// @Description  Productos y unidades por kit. Un kit sin componentes devuelve una lista vacía.
// @Tags         kits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del kit"
// @Success      200  {array}   dto.KitLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /kits/{id}/expand [get]
func (h *KitHandler) Expand(c *fiber.Ctx) error {
	out, err := h.resolver.Expand(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Issuable godoc
// @Summary      Kits despachables en una bodega
// @Tags         kits
// @Security     Bearer
// @Produce      json
// @Param        id           path   string  true  "ID del kit"
// @Param        warehouseId  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.IssuableResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /kits/{id}/issuable [get]
func (h *KitHandler) Issuable(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouseId")
	if warehouseID == "" {
		return writeError(c, domain.ErrInvalidInput)
	}
	out, err := h.resolver.IssuableQuantity(c.UserContext(), c.Params("id"), warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
