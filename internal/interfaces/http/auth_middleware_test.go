package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/insumos-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/insumos-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testStaffID   = "00000000-0000-0000-0000-000000000001"
	testSessionID = "00000000-0000-0000-0000-0000000000aa"
	testIssuer    = "insumos-api-test"
	testExpMin    = 60
)

// revokedSessions simula el store de sesiones: solo testSessionID sigue viva.
type revokedSessions struct{}

func (revokedSessions) ValidateSession(_ context.Context, sid, staffID string) error {
	if sid == testSessionID && staffID == testStaffID {
		return nil
	}
	return errors.New("sesión revocada")
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(sessions apphttp.SessionValidator, allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, sessions),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":       true,
				"role":     apphttp.GetRole(c),
				"staff_id": apphttp.GetStaffID(c),
				"sid":      apphttp.GetSessionID(c),
			})
		},
	)
	return app
}

func tokenFor(t *testing.T, role, sid string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testStaffID, role, sid, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(nil, "ADMIN")
	resp := doRequest(t, app, tokenFor(t, "ADMIN", testSessionID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "ADMIN", body["role"])
	assert.Equal(t, testStaffID, body["staff_id"])
	assert.Equal(t, testSessionID, body["sid"])
}

func TestRequireRole_StandardBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(nil, "ADMIN")
	resp := doRequest(t, app, tokenFor(t, "STANDARD", testSessionID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_MultiRol(t *testing.T) {
	app := buildTestApp(nil, "ADMIN", "STANDARD")
	resp := doRequest(t, app, tokenFor(t, "STANDARD", testSessionID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(nil, "ADMIN")
	resp := doRequest(t, app, tokenFor(t, "", testSessionID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeaderOTokenInvalido(t *testing.T) {
	app := buildTestApp(nil, "ADMIN")

	for name, header := range map[string]string{
		"sin header":      "",
		"sin Bearer":      "Token abc",
		"token malformado": "Bearer token.invalido.aqui",
	} {
		resp := doRequest(t, app, header)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, name)
	}
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testStaffID, "ADMIN", testSessionID, testIssuer, -1)
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp(nil, "ADMIN"), "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_SesionRevocada(t *testing.T) {
	app := buildTestApp(revokedSessions{}, "ADMIN")

	ok := doRequest(t, app, tokenFor(t, "ADMIN", testSessionID))
	ok.Body.Close()
	assert.Equal(t, http.StatusOK, ok.StatusCode)

	revoked := doRequest(t, app, tokenFor(t, "ADMIN", "otra-sesion"))
	defer revoked.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, revoked.StatusCode)
	body, _ := io.ReadAll(revoked.Body)
	assert.Contains(t, string(body), "SESSION_EXPIRED")
}
