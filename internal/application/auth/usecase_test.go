package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/insumos-api/internal/application/auth"
	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/insumos-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

// fakeSessions SessionStore en memoria para tests.
type fakeSessions struct {
	mu   sync.Mutex
	byID map[string]string
}

func newFakeSessions() *fakeSessions { return &fakeSessions{byID: map[string]string{}} }

func (f *fakeSessions) Create(_ context.Context, sid, staffID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[sid] = staffID
	return nil
}

func (f *fakeSessions) Get(_ context.Context, sid string) (*auth.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	staffID, ok := f.byID[sid]
	if !ok {
		return nil, nil
	}
	return &auth.Session{ID: sid, StaffID: staffID}, nil
}

func (f *fakeSessions) Delete(_ context.Context, sid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, sid)
	return nil
}

func (f *fakeSessions) RevokeAllForStaff(_ context.Context, staffID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for sid, owner := range f.byID {
		if owner == staffID {
			delete(f.byID, sid)
		}
	}
	return nil
}

func registerRequest() dto.StaffRequest {
	return dto.StaffRequest{
		Name: "Bruno Lima", CPF: "123.456.789-00", Email: "bruno@clinica.test",
		Password: "senhaforte1", Role: entity.RoleAdmin,
	}
}

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.Store, *fakeSessions) {
	t.Helper()
	store := memory.NewStore()
	sessions := newFakeSessions()
	uc := auth.NewAuthUseCase(store.Repositories().Staff, sessions, auth.JWTConfig{Secret: testSecret, ExpMinutes: 30, Issuer: "test"})
	return uc, store, sessions
}

func TestRegister_CreaCuentaPendienteStandard(t *testing.T) {
	uc, _, _ := newAuth(t)
	ctx := context.Background()

	out, err := uc.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.False(t, out.Staff.Active)
	assert.Equal(t, entity.RoleStandard, out.Staff.Role, "el rol solicitado se ignora")

	_, err = uc.Register(ctx, registerRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestLogin_PendienteDeAprobacion(t *testing.T) {
	uc, _, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "bruno@clinica.test", Password: "senhaforte1"})
	assert.ErrorIs(t, err, domain.ErrPendingApproval)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "bruno@clinica.test", Password: "errada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ninguem@clinica.test", Password: "senhaforte1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_AbreSesionYLogoutLaCierra(t *testing.T) {
	uc, store, sessions := newAuth(t)
	ctx := context.Background()
	reg, err := uc.Register(ctx, registerRequest())
	require.NoError(t, err)
	require.NoError(t, store.Repositories().Staff.SetActive(ctx, reg.Staff.ID, true))

	out, err := uc.Login(ctx, dto.LoginRequest{Email: " Bruno@Clinica.test ", Password: "senhaforte1"})
	require.NoError(t, err)
	assert.Equal(t, 30*60, out.ExpiresIn)

	claims, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.Staff.ID, claims.StaffID)
	assert.Equal(t, entity.RoleStandard, claims.Role)
	require.NotEmpty(t, claims.SessionID)

	require.NoError(t, uc.ValidateSession(ctx, claims.SessionID, claims.StaffID))
	assert.ErrorIs(t, uc.ValidateSession(ctx, claims.SessionID, "otro"), domain.ErrUnauthorized)

	require.NoError(t, uc.Logout(ctx, claims.SessionID))
	assert.Empty(t, sessions.byID)
	assert.ErrorIs(t, uc.ValidateSession(ctx, claims.SessionID, claims.StaffID), domain.ErrUnauthorized)
}

func TestLogin_SinSessionStore(t *testing.T) {
	store := memory.NewStore()
	uc := auth.NewAuthUseCase(store.Repositories().Staff, nil, auth.JWTConfig{Secret: testSecret, ExpMinutes: 5})
	ctx := context.Background()
	reg, err := uc.Register(ctx, registerRequest())
	require.NoError(t, err)
	require.NoError(t, store.Repositories().Staff.SetActive(ctx, reg.Staff.ID, true))

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "bruno@clinica.test", Password: "senhaforte1"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.NoError(t, uc.ValidateSession(ctx, "cualquiera", reg.Staff.ID))
	assert.NoError(t, uc.Logout(ctx, "cualquiera"))
}
