package repository

import (
	"context"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// SupplierFilter criterios de listado de proveedores.
type SupplierFilter struct {
	Search     string // nombre, CNPJ o email
	ActiveOnly bool
}

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	GetByTaxID(ctx context.Context, taxID string) (*entity.Supplier, error)
	GetByEmail(ctx context.Context, email string) (*entity.Supplier, error)
	List(ctx context.Context, filter SupplierFilter) ([]*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	// Delete elimina el proveedor; los movimientos conservan el historial con proveedor nulo.
	Delete(ctx context.Context, id string) error
}
