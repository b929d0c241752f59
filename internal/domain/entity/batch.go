package entity

import "time"

// Batch representa un lote de un insumo. LotNumber es único por insumo y
// ExpiryDate queda fijo desde la primera entrada.
type Batch struct {
	ID                string
	ItemID            string
	LotNumber         string
	ExpiryDate        time.Time
	RemainingQuantity int64
	CreatedAt         time.Time
}

// ExpiresWithin indica si el lote vence en [from, to] (fechas inclusivas).
func (b *Batch) ExpiresWithin(from, to time.Time) bool {
	return !b.ExpiryDate.Before(from) && !b.ExpiryDate.After(to)
}
