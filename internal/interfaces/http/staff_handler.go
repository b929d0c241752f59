package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/application/usecase"
)

// StaffHandler administración de funcionarios.
type StaffHandler struct {
	uc *usecase.StaffUseCase
}

func NewStaffHandler(uc *usecase.StaffUseCase) *StaffHandler {
	return &StaffHandler{uc: uc}
}

// Create godoc
// @Summary      Crear funcionario (ADMIN)
// @Tags         staff
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StaffRequest  true  "Datos del funcionario"
// @Success      201   {object}  dto.StaffResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/staff [post]
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var in dto.StaffRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), CallerFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener funcionario
// @Tags         staff
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del funcionario"
// @Success      200  {object}  dto.StaffResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/staff/{id} [get]
func (h *StaffHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar funcionarios
// @Tags         staff
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Texto en nombre, email o CPF"
// @Success      200  {object}  dto.ListResponse[dto.StaffResponse]
// @Router       /api/staff [get]
func (h *StaffHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("search"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar funcionario
// @Description  Cada funcionario edita sus datos; solo ADMIN edita a otros o cambia el rol.
// @Tags         staff
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID del funcionario"
// @Param        body  body  dto.StaffRequest  true  "Datos del funcionario"
// @Success      200   {object}  dto.StaffResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/staff/{id} [put]
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	var in dto.StaffRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), CallerFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Activate godoc
// @Summary      Aprobar / activar funcionario (ADMIN)
// @Tags         staff
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del funcionario"
// @Success      200  {object}  dto.StaffResponse
// @Router       /api/staff/{id}/activate [post]
func (h *StaffHandler) Activate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

// Deactivate godoc
// @Summary      Desactivar funcionario (ADMIN)
// @Description  Revoca todas sus sesiones abiertas.
// @Tags         staff
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del funcionario"
// @Success      200  {object}  dto.StaffResponse
// @Router       /api/staff/{id}/deactivate [post]
func (h *StaffHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *StaffHandler) setActive(c *fiber.Ctx, active bool) error {
	out, err := h.uc.SetActive(c.UserContext(), CallerFrom(c), c.Params("id"), active)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar funcionario (ADMIN)
// @Tags         staff
// @Security     Bearer
// @Param        id   path  string  true  "ID del funcionario"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse  "tiene movimientos registrados"
// @Router       /api/staff/{id} [delete]
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), CallerFrom(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
