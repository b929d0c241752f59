package usecase

import "github.com/jhoicas/insumos-api/internal/domain/entity"

// Caller identifica al funcionario autenticado que invoca la operación.
type Caller struct {
	StaffID string
	Role    string
}

// IsAdmin indica si el llamador tiene rol ADMIN.
func (c Caller) IsAdmin() bool { return c.Role == entity.RoleAdmin }
