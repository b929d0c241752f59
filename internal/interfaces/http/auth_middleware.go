package http

import (
	"context"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/application/usecase"
	"github.com/jhoicas/insumos-api/pkg/jwt"
)

// Locals keys cargadas por AuthMiddleware.
const (
	LocalStaffID   = "staff_id"
	LocalRole      = "role"
	LocalSessionID = "sid"
)

// SessionValidator comprueba que la sesión del token siga viva en el servidor.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID, staffID string) error
}

// AuthMiddleware valida el Bearer Token JWT y, si sessions no es nil, que su sesión no haya
// sido cerrada o revocada. Carga staff_id, role y sid en c.Locals.
func AuthMiddleware(jwtSecret string, sessions SessionValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil || claims.StaffID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if sessions != nil {
			if err := sessions.ValidateSession(c.UserContext(), claims.SessionID, claims.StaffID); err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "sesión cerrada o expirada"})
			}
		}
		c.Locals(LocalStaffID, claims.StaffID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalSessionID, claims.SessionID)
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Debe ir después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if !slices.Contains(roles, role) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
		}
		return c.Next()
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetStaffID devuelve el funcionario autenticado.
func GetStaffID(c *fiber.Ctx) string { return localString(c, LocalStaffID) }

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// GetSessionID devuelve el id de la sesión del servidor.
func GetSessionID(c *fiber.Ctx) string { return localString(c, LocalSessionID) }

// CallerFrom arma el Caller de los casos de uso a partir del token.
func CallerFrom(c *fiber.Ctx) usecase.Caller {
	return usecase.Caller{StaffID: GetStaffID(c), Role: GetRole(c)}
}
