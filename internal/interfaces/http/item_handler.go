package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/application/inventory"
	"github.com/jhoicas/insumos-api/internal/application/report"
	"github.com/jhoicas/insumos-api/internal/application/usecase"
)

// ItemHandler CRUD de insumos más sus lotes disponibles e historial de compras.
type ItemHandler struct {
	uc      *usecase.ItemUseCase
	stock   *inventory.StockMovementUseCase
	reports *report.ReportUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase, stock *inventory.StockMovementUseCase, reports *report.ReportUseCase) *ItemHandler {
	return &ItemHandler{uc: uc, stock: stock, reports: reports}
}

// Create godoc
// @Summary      Registrar insumo
// @Description  Saldo y costo promedio inician en cero; solo cambian por entradas y salidas.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del insumo"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener insumo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del insumo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar insumos
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        search       query  string  false  "Texto en nombre o categoría"
// @Param        active_only  query  bool    false  "Solo activos"
// @Param        in_stock     query  bool    false  "Solo con saldo"
// @Success      200  {object}  dto.ListResponse[dto.ItemResponse]
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var q dto.ItemListQuery
	if err := c.QueryParser(&q); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_QUERY", "parámetros de consulta inválidos")
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar insumo
// @Description  Solo campos descriptivos; enviar balance o average_cost devuelve 400.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del insumo"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar insumo
// @Tags         items
// @Security     Bearer
// @Param        id   path  string  true  "ID del insumo"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse  "el insumo tiene lotes"
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Batches godoc
// @Summary      Lotes con saldo del insumo
// @Description  Ordenados por vencimiento, el más próximo primero.
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del insumo"
// @Success      200  {object}  dto.ListResponse[dto.BatchResponse]
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/batches [get]
func (h *ItemHandler) Batches(c *fiber.Ctx) error {
	batches, err := h.stock.ListAvailableBatches(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, dto.FromBatch(b))
	}
	return c.JSON(dto.NewList(out))
}

// Purchases godoc
// @Summary      Historial de compras del insumo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del insumo"
// @Success      200  {object}  dto.PurchaseHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/purchases [get]
func (h *ItemHandler) Purchases(c *fiber.Ctx) error {
	out, err := h.reports.PurchaseHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
