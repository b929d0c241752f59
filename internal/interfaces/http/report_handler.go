package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/insumos-api/internal/application/report"
)

// ReportHandler consultas de solo lectura sobre el inventario.
type ReportHandler struct {
	uc *report.ReportUseCase
}

func NewReportHandler(uc *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Dashboard godoc
// @Summary      Resumen del inventario
// @Description  Valor total, insumos con stock bajo y lotes que vencen en los próximos 30 días.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Consumption godoc
// @Summary      Costo de consumo del período
// @Description  Salidas entre from y to (inclusive). Por defecto desde el primer día del mes hasta hoy. Con format=pdf devuelve el documento.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Produce      application/pdf
// @Param        from    query  string  false  "YYYY-MM-DD"
// @Param        to      query  string  false  "YYYY-MM-DD"
// @Param        format  query  string  false  "json | pdf"
// @Success      200  {object}  dto.ConsumptionReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/consumption [get]
func (h *ReportHandler) Consumption(c *fiber.Ctx) error {
	from, to := c.Query("from"), c.Query("to")
	if c.Query("format") == "pdf" {
		pdfBytes, filename, err := h.uc.ConsumptionPDF(c.UserContext(), from, to)
		if err != nil {
			return writeError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(pdfBytes)
	}
	out, err := h.uc.Consumption(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
