package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryRequest body de POST /api/inventory/entries. expiry_date en formato YYYY-MM-DD.
type EntryRequest struct {
	ItemID     string           `json:"item_id" validate:"required"`
	SupplierID string           `json:"supplier_id" validate:"required"`
	Quantity   int64            `json:"quantity" validate:"required,gt=0"`
	TotalCost  *decimal.Decimal `json:"total_cost"` // obligatorio; "0" es válido
	LotNumber  string           `json:"lot_number" validate:"required"`
	ExpiryDate string           `json:"expiry_date" validate:"required"`
}

// ExitRequest body de POST /api/inventory/exits.
type ExitRequest struct {
	BatchID  string `json:"batch_id" validate:"required"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
	Reason   string `json:"reason"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID                string    `json:"id"`
	ItemID            string    `json:"item_id"`
	LotNumber         string    `json:"lot_number"`
	ExpiryDate        string    `json:"expiry_date"`
	RemainingQuantity int64     `json:"remaining_quantity"`
	CreatedAt         time.Time `json:"created_at"`
}

// MovementResponse salida de un movimiento con el estado resultante del insumo y del lote.
type MovementResponse struct {
	ID            string           `json:"id"`
	Kind          string           `json:"kind"`
	Quantity      int64            `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	SupplierID    string           `json:"supplier_id,omitempty"`
	StaffMemberID string           `json:"staff_member_id"`
	CreatedAt     time.Time        `json:"created_at"`
	Item          ItemResponse     `json:"item"`
	Batch         BatchResponse    `json:"batch"`
}
