package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// ExpiringBatchResult lote próximo a vencer con datos del insumo.
type ExpiringBatchResult struct {
	Batch    entity.Batch
	ItemName string
}

// ConsumptionLine una salida con los datos necesarios para el informe de consumo.
type ConsumptionLine struct {
	Movement        entity.Movement
	ItemName        string
	LotNumber       string
	StaffMemberName string
}

// PurchaseLine una entrada con los datos necesarios para el historial de compras.
type PurchaseLine struct {
	Movement     entity.Movement
	LotNumber    string
	ExpiryDate   time.Time
	SupplierName string // vacío si el proveedor fue eliminado
}

// ReportRepository consultas de solo lectura sobre el estado persistido.
type ReportRepository interface {
	// InventoryValue suma Balance * AverageCost de los insumos activos.
	InventoryValue(ctx context.Context) (decimal.Decimal, error)
	// LowStockItems insumos activos con saldo <= stock mínimo, por saldo ascendente.
	LowStockItems(ctx context.Context, limit int) ([]*entity.Item, error)
	// ExpiringBatches lotes con cantidad > 0 que vencen en [from, to], por vencimiento ascendente.
	ExpiringBatches(ctx context.Context, from, to time.Time, limit int) ([]ExpiringBatchResult, error)
	// ConsumptionLines salidas con from <= fecha < to, más recientes primero.
	ConsumptionLines(ctx context.Context, from, to time.Time) ([]ConsumptionLine, error)
	// PurchaseHistory entradas del insumo, más recientes primero.
	PurchaseHistory(ctx context.Context, itemID string) ([]PurchaseLine, error)
}
