package dto

import "time"

// SupplierRequest entrada para crear o actualizar un proveedor.
type SupplierRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
	Active  *bool  `json:"active,omitempty"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	TaxID     string    `json:"tax_id"`
	Address   string    `json:"address"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
