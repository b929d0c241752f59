package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
	now  func() time.Time
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, now: time.Now}
}

// Create registra un proveedor. CNPJ y email, si se informan, deben ser únicos.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	in = normalizeSupplier(in)
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	if err := uc.checkUnique(ctx, "", in); err != nil {
		return nil, err
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	now := uc.now()
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		TaxID:     in.TaxID,
		Address:   in.Address,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	out := dto.FromSupplier(s)
	return &out, nil
}

// GetByID obtiene un proveedor por ID.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromSupplier(s)
	return &out, nil
}

// Update reemplaza los datos del proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in = normalizeSupplier(in)
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	if err := uc.checkUnique(ctx, id, in); err != nil {
		return nil, err
	}
	s.Name = in.Name
	s.Phone = in.Phone
	s.Email = in.Email
	s.TaxID = in.TaxID
	s.Address = in.Address
	if in.Active != nil {
		s.Active = *in.Active
	}
	s.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	out := dto.FromSupplier(s)
	return &out, nil
}

// List lista proveedores; activeOnly se usa en el formulario de entradas.
func (uc *SupplierUseCase) List(ctx context.Context, search string, activeOnly bool) (dto.ListResponse[dto.SupplierResponse], error) {
	list, err := uc.repo.List(ctx, repository.SupplierFilter{Search: strings.TrimSpace(search), ActiveOnly: activeOnly})
	if err != nil {
		return dto.ListResponse[dto.SupplierResponse]{}, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.FromSupplier(s))
	}
	return dto.NewList(out), nil
}

// Delete elimina el proveedor; solo ADMIN.
func (uc *SupplierUseCase) Delete(ctx context.Context, caller Caller, id string) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *SupplierUseCase) get(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFound("proveedor", id)
	}
	return s, nil
}

func (uc *SupplierUseCase) checkUnique(ctx context.Context, selfID string, in dto.SupplierRequest) error {
	if in.TaxID != "" {
		other, err := uc.repo.GetByTaxID(ctx, in.TaxID)
		if err != nil {
			return err
		}
		if other != nil && other.ID != selfID {
			return domain.ErrDuplicate
		}
	}
	if in.Email != "" {
		other, err := uc.repo.GetByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if other != nil && other.ID != selfID {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func normalizeSupplier(in dto.SupplierRequest) dto.SupplierRequest {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.TaxID = strings.TrimSpace(in.TaxID)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	return in
}
