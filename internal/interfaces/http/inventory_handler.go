package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/application/inventory"
	"github.com/jhoicas/insumos-api/internal/domain"
)

// InventoryHandler entradas y salidas de stock. El funcionario del movimiento es siempre el
// autenticado.
type InventoryHandler struct {
	uc *inventory.StockMovementUseCase
}

func NewInventoryHandler(uc *inventory.StockMovementUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RecordEntry godoc
// @Summary      Registrar entrada (compra)
// @Description  Recalcula el costo promedio ponderado y suma la cantidad al lote (se crea si el número de lote es nuevo).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EntryRequest  true  "Datos de la compra"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/entries [post]
func (h *InventoryHandler) RecordEntry(c *fiber.Ctx) error {
	var in dto.EntryRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	if in.TotalCost == nil {
		return writeError(c, domain.NewValidationError("total_cost", "es requerido"))
	}
	expiry, err := time.ParseInLocation(dto.DateLayout, strings.TrimSpace(in.ExpiryDate), time.UTC)
	if err != nil {
		return writeError(c, domain.NewValidationError("expiry_date", "formato de fecha esperado YYYY-MM-DD"))
	}
	res, err := h.uc.RecordEntry(c.UserContext(), inventory.EntryInput{
		ItemID:        in.ItemID,
		SupplierID:    in.SupplierID,
		StaffMemberID: GetStaffID(c),
		Quantity:      in.Quantity,
		TotalCost:     *in.TotalCost,
		LotNumber:     in.LotNumber,
		ExpiryDate:    expiry,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(&res.Movement, &res.Item, &res.Batch))
}

// RecordExit godoc
// @Summary      Registrar salida (uso)
// @Description  El costo promedio no cambia. Si la cantidad supera el saldo del lote responde 409 con requested y available.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ExitRequest  true  "Lote, cantidad y motivo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/inventory/exits [post]
func (h *InventoryHandler) RecordExit(c *fiber.Ctx) error {
	var in dto.ExitRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.RecordExit(c.UserContext(), inventory.ExitInput{
		BatchID:       in.BatchID,
		StaffMemberID: GetStaffID(c),
		Quantity:      in.Quantity,
		Reason:        in.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(&res.Movement, &res.Item, &res.Batch))
}

// GetBatch godoc
// @Summary      Obtener lote
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/batches/{id} [get]
func (h *InventoryHandler) GetBatch(c *fiber.Ctx) error {
	b, err := h.uc.GetBatch(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromBatch(b))
}
