package auth

import (
	"context"
	"time"
)

// Session sesión del servidor asociada a un token.
type Session struct {
	ID        string
	StaffID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SessionStore persiste sesiones con TTL (Redis). Get devuelve (nil, nil) si la sesión
// no existe o expiró.
type SessionStore interface {
	Create(ctx context.Context, sessionID, staffID string) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	RevokeAllForStaff(ctx context.Context, staffID string) error
}
