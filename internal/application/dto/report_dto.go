package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardResponse respuesta de GET /api/reports/dashboard.
type DashboardResponse struct {
	InventoryValue decimal.Decimal    `json:"inventory_value"` // Σ saldo × costo promedio
	LowStock       []LowStockDTO      `json:"low_stock"`
	ExpiringSoon   []ExpiringBatchDTO `json:"expiring_soon"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

// LowStockDTO insumo con saldo en o por debajo de su stock mínimo.
type LowStockDTO struct {
	ItemID           string `json:"item_id"`
	Name             string `json:"name"`
	Balance          int64  `json:"balance"`
	ReorderThreshold int64  `json:"reorder_threshold"`
}

// ExpiringBatchDTO lote con saldo que vence pronto.
type ExpiringBatchDTO struct {
	BatchID           string `json:"batch_id"`
	ItemID            string `json:"item_id"`
	ItemName          string `json:"item_name"`
	LotNumber         string `json:"lot_number"`
	ExpiryDate        string `json:"expiry_date"`
	RemainingQuantity int64  `json:"remaining_quantity"`
	DaysLeft          int    `json:"days_left"`
}

// ConsumptionLineDTO una salida del período con su subtotal.
type ConsumptionLineDTO struct {
	MovementID      string          `json:"movement_id"`
	Date            time.Time       `json:"date"`
	ItemName        string          `json:"item_name"`
	LotNumber       string          `json:"lot_number"`
	Quantity        int64           `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Reason          string          `json:"reason,omitempty"`
	StaffMemberName string          `json:"staff_member_name"`
}

// ConsumptionReportResponse informe de costo de consumo de un período (to inclusive).
type ConsumptionReportResponse struct {
	From  string               `json:"from"`
	To    string               `json:"to"`
	Lines []ConsumptionLineDTO `json:"lines"`
	Total decimal.Decimal      `json:"total"`
}

// PurchaseLineDTO una entrada del historial de compras de un insumo.
type PurchaseLineDTO struct {
	MovementID   string          `json:"movement_id"`
	Date         time.Time       `json:"date"`
	LotNumber    string          `json:"lot_number"`
	ExpiryDate   string          `json:"expiry_date"`
	SupplierName string          `json:"supplier_name"`
	Quantity     int64           `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Total        decimal.Decimal `json:"total"`
}

// PurchaseHistoryResponse historial de compras de un insumo, más recientes primero.
type PurchaseHistoryResponse struct {
	ItemID   string            `json:"item_id"`
	ItemName string            `json:"item_name"`
	Lines    []PurchaseLineDTO `json:"lines"`
}
