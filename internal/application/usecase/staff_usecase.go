package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

// SessionRevoker invalida las sesiones abiertas de un funcionario (Redis).
type SessionRevoker interface {
	RevokeAllForStaff(ctx context.Context, staffID string) error
}

// StaffUseCase administración de funcionarios.
type StaffUseCase struct {
	repo     repository.StaffRepository
	sessions SessionRevoker
	now      func() time.Time
}

// NewStaffUseCase construye el caso de uso. sessions puede ser nil (sin sesiones en servidor).
func NewStaffUseCase(repo repository.StaffRepository, sessions SessionRevoker) *StaffUseCase {
	return &StaffUseCase{repo: repo, sessions: sessions, now: time.Now}
}

// NewStaffMember valida la solicitud y construye la entidad con la contraseña hasheada (bcrypt).
func NewStaffMember(in dto.StaffRequest, role string, active bool, now time.Time) (*entity.StaffMember, error) {
	in = normalizeStaff(in)
	if err := validateStaff(in); err != nil {
		return nil, err
	}
	if len(in.Password) < 8 {
		return nil, domain.NewValidationError("password", "debe tener al menos 8 caracteres")
	}
	birth, err := parseBirthDate(in.BirthDate)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &entity.StaffMember{
		ID:           uuid.New().String(),
		Name:         in.Name,
		BirthDate:    birth,
		CPF:          in.CPF,
		Sex:          in.Sex,
		Birthplace:   in.Birthplace,
		Phone:        in.Phone,
		Address:      in.Address,
		JobTitle:     in.JobTitle,
		Role:         role,
		Email:        in.Email,
		PasswordHash: string(hash),
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Create da de alta una cuenta activa; solo ADMIN.
func (uc *StaffUseCase) Create(ctx context.Context, caller Caller, in dto.StaffRequest) (*dto.StaffResponse, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	role := in.Role
	if role == "" {
		role = entity.RoleStandard
	}
	if !entity.ValidRole(role) {
		return nil, domain.NewValidationError("role", "rol desconocido")
	}
	member, err := NewStaffMember(in, role, true, uc.now())
	if err != nil {
		return nil, err
	}
	if err := EnsureStaffUnique(ctx, uc.repo, "", member.Email, member.CPF); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, member); err != nil {
		return nil, err
	}
	out := dto.FromStaff(member)
	return &out, nil
}

// GetByID obtiene un funcionario por ID.
func (uc *StaffUseCase) GetByID(ctx context.Context, id string) (*dto.StaffResponse, error) {
	m, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromStaff(m)
	return &out, nil
}

// List lista funcionarios con búsqueda por nombre, CPF o email.
func (uc *StaffUseCase) List(ctx context.Context, search string) (dto.ListResponse[dto.StaffResponse], error) {
	list, err := uc.repo.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return dto.ListResponse[dto.StaffResponse]{}, err
	}
	out := make([]dto.StaffResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.FromStaff(m))
	}
	return dto.NewList(out), nil
}

// Update modifica los datos del funcionario. ADMIN puede editar a cualquiera y cambiar el rol;
// un STANDARD solo a sí mismo y sin cambiar el rol. Password vacío conserva la contraseña.
func (uc *StaffUseCase) Update(ctx context.Context, caller Caller, id string, in dto.StaffRequest) (*dto.StaffResponse, error) {
	if !caller.IsAdmin() && caller.StaffID != id {
		return nil, domain.ErrForbidden
	}
	m, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in = normalizeStaff(in)
	if err := validateStaff(in); err != nil {
		return nil, err
	}
	if in.Role != "" && in.Role != m.Role {
		if !caller.IsAdmin() {
			return nil, domain.ErrForbidden
		}
		if !entity.ValidRole(in.Role) {
			return nil, domain.NewValidationError("role", "rol desconocido")
		}
		m.Role = in.Role
	}
	birth, err := parseBirthDate(in.BirthDate)
	if err != nil {
		return nil, err
	}
	if err := EnsureStaffUnique(ctx, uc.repo, id, in.Email, in.CPF); err != nil {
		return nil, err
	}
	if in.Password != "" {
		if len(in.Password) < 8 {
			return nil, domain.NewValidationError("password", "debe tener al menos 8 caracteres")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		m.PasswordHash = string(hash)
	}
	m.Name = in.Name
	m.BirthDate = birth
	m.CPF = in.CPF
	m.Sex = in.Sex
	m.Birthplace = in.Birthplace
	m.Phone = in.Phone
	m.Address = in.Address
	m.JobTitle = in.JobTitle
	m.Email = in.Email
	m.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	out := dto.FromStaff(m)
	return &out, nil
}

// SetActive aprueba (activa) o desactiva una cuenta; solo ADMIN. Desactivar revoca sus sesiones.
func (uc *StaffUseCase) SetActive(ctx context.Context, caller Caller, id string, active bool) (*dto.StaffResponse, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !active && caller.StaffID == id {
		return nil, domain.NewValidationError("id", "no puede desactivar su propia cuenta")
	}
	m, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	if !active {
		if err := uc.revoke(ctx, id); err != nil {
			return nil, err
		}
	}
	m.Active = active
	out := dto.FromStaff(m)
	return &out, nil
}

// Delete elimina un funcionario; solo ADMIN y nunca a sí mismo. Falla con domain.ErrReferenced
// mientras existan movimientos registrados por él.
func (uc *StaffUseCase) Delete(ctx context.Context, caller Caller, id string) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if caller.StaffID == id {
		return domain.NewValidationError("id", "no puede eliminar su propia cuenta")
	}
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	return uc.revoke(ctx, id)
}

func (uc *StaffUseCase) revoke(ctx context.Context, id string) error {
	if uc.sessions == nil {
		return nil
	}
	return uc.sessions.RevokeAllForStaff(ctx, id)
}

func (uc *StaffUseCase) get(ctx context.Context, id string) (*entity.StaffMember, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.NotFound("funcionario", id)
	}
	return m, nil
}

// EnsureStaffUnique devuelve domain.ErrDuplicate si el email o el CPF ya pertenecen a otro funcionario.
func EnsureStaffUnique(ctx context.Context, repo repository.StaffRepository, selfID, email, cpf string) error {
	other, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return domain.ErrDuplicate
	}
	other, err = repo.GetByCPF(ctx, cpf)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return domain.ErrDuplicate
	}
	return nil
}

func normalizeStaff(in dto.StaffRequest) dto.StaffRequest {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.CPF = strings.TrimSpace(in.CPF)
	in.Sex = strings.ToUpper(strings.TrimSpace(in.Sex))
	in.Role = strings.ToUpper(strings.TrimSpace(in.Role))
	return in
}

func validateStaff(in dto.StaffRequest) error {
	switch {
	case in.Name == "":
		return domain.NewValidationError("name", "es requerido")
	case in.Email == "" || !strings.Contains(in.Email, "@"):
		return domain.NewValidationError("email", "email inválido")
	case in.CPF == "":
		return domain.NewValidationError("cpf", "es requerido")
	case in.Sex != "" && in.Sex != "M" && in.Sex != "F":
		return domain.NewValidationError("sex", "debe ser M o F")
	}
	return nil
}

func parseBirthDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError("birth_date", "formato esperado YYYY-MM-DD")
	}
	return t, nil
}
