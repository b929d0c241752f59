package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

const (
	dashboardTopN      = 5
	expiringWindowDays = 30
)

// ReportUseCase informes de solo lectura sobre el estado confirmado del inventario.
type ReportUseCase struct {
	reports   repository.ReportRepository
	items     repository.ItemRepository
	generator ConsumptionPDFGenerator
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso. generator puede ser nil (exportación PDF deshabilitada).
func NewReportUseCase(reports repository.ReportRepository, items repository.ItemRepository, generator ConsumptionPDFGenerator) *ReportUseCase {
	return &ReportUseCase{reports: reports, items: items, generator: generator, now: time.Now}
}

// Dashboard valor total del inventario, alertas de stock bajo y lotes por vencer en 30 días.
func (uc *ReportUseCase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	now := uc.now()
	value, err := uc.reports.InventoryValue(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: valor de inventario: %w", err)
	}
	low, err := uc.reports.LowStockItems(ctx, dashboardTopN)
	if err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", err)
	}
	today := startOfDay(now, time.UTC)
	expiring, err := uc.reports.ExpiringBatches(ctx, today, today.AddDate(0, 0, expiringWindowDays), dashboardTopN)
	if err != nil {
		return nil, fmt.Errorf("dashboard: lotes por vencer: %w", err)
	}

	out := &dto.DashboardResponse{
		InventoryValue: value,
		LowStock:       make([]dto.LowStockDTO, 0, len(low)),
		ExpiringSoon:   make([]dto.ExpiringBatchDTO, 0, len(expiring)),
		GeneratedAt:    now,
	}
	for _, it := range low {
		out.LowStock = append(out.LowStock, dto.LowStockDTO{
			ItemID:           it.ID,
			Name:             it.Name,
			Balance:          it.Balance,
			ReorderThreshold: it.ReorderThreshold,
		})
	}
	for _, e := range expiring {
		out.ExpiringSoon = append(out.ExpiringSoon, dto.ExpiringBatchDTO{
			BatchID:           e.Batch.ID,
			ItemID:            e.Batch.ItemID,
			ItemName:          e.ItemName,
			LotNumber:         e.Batch.LotNumber,
			ExpiryDate:        e.Batch.ExpiryDate.Format(dto.DateLayout),
			RemainingQuantity: e.Batch.RemainingQuantity,
			DaysLeft:          int(e.Batch.ExpiryDate.Sub(today).Hours() / 24),
		})
	}
	return out, nil
}

// Consumption informe de costo de las salidas en [from, to] (fechas YYYY-MM-DD, to inclusive
// hasta el fin del día). Por defecto: primer día del mes en curso hasta hoy.
func (uc *ReportUseCase) Consumption(ctx context.Context, fromStr, toStr string) (*dto.ConsumptionReportResponse, error) {
	now := uc.now()
	loc := now.Location()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	to := startOfDay(now, loc)
	var err error
	if strings.TrimSpace(fromStr) != "" {
		if from, err = parseDate("from", fromStr, loc); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(toStr) != "" {
		if to, err = parseDate("to", toStr, loc); err != nil {
			return nil, err
		}
	}
	if to.Before(from) {
		return nil, domain.NewValidationError("to", "debe ser igual o posterior a from")
	}

	lines, err := uc.reports.ConsumptionLines(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("consumo: %w", err)
	}
	out := &dto.ConsumptionReportResponse{
		From:  from.Format(dto.DateLayout),
		To:    to.Format(dto.DateLayout),
		Lines: make([]dto.ConsumptionLineDTO, 0, len(lines)),
		Total: decimal.Zero,
	}
	for _, l := range lines {
		unitCost := decimal.Zero
		if l.Movement.UnitCost != nil {
			unitCost = *l.Movement.UnitCost
		}
		subtotal := l.Movement.Subtotal()
		out.Total = out.Total.Add(subtotal)
		out.Lines = append(out.Lines, dto.ConsumptionLineDTO{
			MovementID:      l.Movement.ID,
			Date:            l.Movement.CreatedAt,
			ItemName:        l.ItemName,
			LotNumber:       l.LotNumber,
			Quantity:        l.Movement.Quantity,
			UnitCost:        unitCost,
			Subtotal:        subtotal,
			Reason:          l.Movement.Reason,
			StaffMemberName: l.StaffMemberName,
		})
	}
	return out, nil
}

// ConsumptionPDF genera el informe de consumo del período en PDF.
func (uc *ReportUseCase) ConsumptionPDF(ctx context.Context, fromStr, toStr string) (pdfBytes []byte, filename string, err error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("%w: exportación PDF no configurada", domain.ErrInvalidInput)
	}
	rep, err := uc.Consumption(ctx, fromStr, toStr)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateConsumptionPDF(ctx, rep)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("consumo_%s_%s.pdf", rep.From, rep.To), nil
}

// PurchaseHistory entradas del insumo, más recientes primero, con total = cantidad × costo unitario.
func (uc *ReportUseCase) PurchaseHistory(ctx context.Context, itemID string) (*dto.PurchaseHistoryResponse, error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("insumo", itemID)
	}
	lines, err := uc.reports.PurchaseHistory(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("historial de compras: %w", err)
	}
	out := &dto.PurchaseHistoryResponse{
		ItemID:   item.ID,
		ItemName: item.Name,
		Lines:    make([]dto.PurchaseLineDTO, 0, len(lines)),
	}
	for _, l := range lines {
		unitCost := decimal.Zero
		if l.Movement.UnitCost != nil {
			unitCost = *l.Movement.UnitCost
		}
		out.Lines = append(out.Lines, dto.PurchaseLineDTO{
			MovementID:   l.Movement.ID,
			Date:         l.Movement.CreatedAt,
			LotNumber:    l.LotNumber,
			ExpiryDate:   l.ExpiryDate.Format(dto.DateLayout),
			SupplierName: l.SupplierName,
			Quantity:     l.Movement.Quantity,
			UnitCost:     unitCost,
			Total:        l.Movement.Subtotal(),
		})
	}
	return out, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func parseDate(field, s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dto.DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "formato esperado YYYY-MM-DD")
	}
	return t, nil
}
