package entity

import "time"

// Supplier representa un proveedor de insumos.
type Supplier struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	TaxID     string // CNPJ; opcional pero único si se informa
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
