package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/application/usecase"
	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
	"github.com/jhoicas/insumos-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login, auto-registro y logout.
type AuthUseCase struct {
	staffRepo repository.StaffRepository
	sessions  SessionStore
	jwtCfg    JWTConfig
	now       func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. sessions puede ser nil: en ese caso el
// token es la única credencial y logout no puede invalidarlo.
func NewAuthUseCase(staffRepo repository.StaffRepository, sessions SessionStore, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{staffRepo: staffRepo, sessions: sessions, jwtCfg: jwtCfg, now: time.Now}
}

// Login verifica email/password, abre una sesión y devuelve el token firmado.
// Email desconocido o password incorrecto: domain.ErrUnauthorized (sin distinguir).
// Cuenta inactiva: domain.ErrPendingApproval.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	member, err := uc.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !member.Active {
		return nil, domain.ErrPendingApproval
	}

	sid := uuid.New().String()
	if uc.sessions != nil {
		if err := uc.sessions.Create(ctx, sid, member.ID); err != nil {
			return nil, err
		}
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, member.ID, member.Role, sid, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		Staff:     dto.FromStaff(member),
	}, nil
}

// Register crea una cuenta STANDARD inactiva que queda pendiente de aprobación por un ADMIN.
// El rol solicitado se ignora.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.StaffRequest) (*dto.RegisterResponse, error) {
	member, err := usecase.NewStaffMember(in, entity.RoleStandard, false, uc.now())
	if err != nil {
		return nil, err
	}
	if err := usecase.EnsureStaffUnique(ctx, uc.staffRepo, "", member.Email, member.CPF); err != nil {
		return nil, err
	}
	if err := uc.staffRepo.Create(ctx, member); err != nil {
		return nil, err
	}
	return &dto.RegisterResponse{
		Staff:   dto.FromStaff(member),
		Message: "cuenta creada; pendiente de aprobación por un administrador",
	}, nil
}

// Logout elimina la sesión del servidor.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	if uc.sessions == nil || sessionID == "" {
		return nil
	}
	return uc.sessions.Delete(ctx, sessionID)
}

// ValidateSession indica si la sesión sigue viva y pertenece a staffID.
// Sin SessionStore toda sesión se considera válida (solo cuenta el token).
func (uc *AuthUseCase) ValidateSession(ctx context.Context, sessionID, staffID string) error {
	if uc.sessions == nil {
		return nil
	}
	s, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if s == nil || s.StaffID != staffID {
		return domain.ErrUnauthorized
	}
	return nil
}
