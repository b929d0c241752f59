package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de insumo.
const (
	CategoryConsumable          = "consumable"
	CategoryProtectiveEquipment = "protective_equipment"
	CategoryMedication          = "medication"
	CategoryInstrument          = "instrument"
)

// Unidades de medida.
const (
	UnitBox     = "box"
	UnitBottle  = "bottle"
	UnitKit     = "kit"
	UnitUnit    = "unit"
	UnitLiter   = "liter"
	UnitPackage = "package"
	UnitPair    = "pair"
	UnitRoll    = "roll"
)

// DefaultReorderThreshold valor por defecto del stock mínimo.
const DefaultReorderThreshold = 5

// Item representa un insumo del inventario.
// Balance y AverageCost solo los modifica el motor de movimientos; Balance siempre es
// la suma de RemainingQuantity de sus lotes.
type Item struct {
	ID               string
	Name             string
	Category         string
	UnitMeasure      string
	ReorderThreshold int64
	Balance          int64
	AverageCost      decimal.Decimal // costo promedio ponderado (inicia en 0)
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsLowStock indica si el saldo está en o por debajo del stock mínimo.
func (i *Item) IsLowStock() bool {
	return i.Balance <= i.ReorderThreshold
}

// StockValue devuelve Balance * AverageCost.
func (i *Item) StockValue() decimal.Decimal {
	return decimal.NewFromInt(i.Balance).Mul(i.AverageCost)
}

// ValidCategory indica si c es una categoría conocida.
func ValidCategory(c string) bool {
	switch c {
	case CategoryConsumable, CategoryProtectiveEquipment, CategoryMedication, CategoryInstrument:
		return true
	}
	return false
}

// ValidUnitMeasure indica si u es una unidad de medida conocida.
func ValidUnitMeasure(u string) bool {
	switch u {
	case UnitBox, UnitBottle, UnitKit, UnitUnit, UnitLiter, UnitPackage, UnitPair, UnitRoll:
		return true
	}
	return false
}
