package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento.
const (
	MovementKindEntry = "entry" // entrada (compra)
	MovementKindExit  = "exit"  // salida (uso)
)

// Movement es un registro inmutable de entrada o salida sobre un lote.
// UnitCost en entradas es el costo unitario de la compra; en salidas es el costo
// promedio del insumo en el momento de la salida.
type Movement struct {
	ID            string
	Kind          string
	BatchID       string
	ItemID        string
	Quantity      int64
	UnitCost      *decimal.Decimal
	Reason        string
	SupplierID    string // vacío en salidas
	StaffMemberID string
	CreatedAt     time.Time
}

// Subtotal devuelve Quantity * UnitCost (0 si no hay costo registrado).
func (m *Movement) Subtotal() decimal.Decimal {
	if m.UnitCost == nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(m.Quantity).Mul(*m.UnitCost)
}

// MissingCost indica una entrada sin costo unitario, que el registro de movimientos no admite.
func (m *Movement) MissingCost() bool {
	return m.Kind == MovementKindEntry && m.UnitCost == nil
}
