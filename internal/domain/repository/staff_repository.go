package repository

import (
	"context"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// StaffRepository define el puerto de persistencia para StaffMember.
type StaffRepository interface {
	Create(ctx context.Context, member *entity.StaffMember) error
	GetByID(ctx context.Context, id string) (*entity.StaffMember, error)
	GetByEmail(ctx context.Context, email string) (*entity.StaffMember, error)
	GetByCPF(ctx context.Context, cpf string) (*entity.StaffMember, error)
	// List filtra por nombre, CPF o email cuando search no está vacío.
	List(ctx context.Context, search string) ([]*entity.StaffMember, error)
	Update(ctx context.Context, member *entity.StaffMember) error
	SetActive(ctx context.Context, id string, active bool) error
	// Delete devuelve domain.ErrReferenced si el funcionario tiene movimientos.
	Delete(ctx context.Context, id string) error
}
