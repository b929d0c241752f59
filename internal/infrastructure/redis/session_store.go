package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/insumos-api/internal/application/auth"
)

// SessionStore sesiones del servidor en Redis. Cada sesión vive bajo su propia clave con TTL
// y el conjunto de sesiones de cada funcionario permite revocarlas todas de una vez.
type SessionStore struct {
	rdb *goredis.Client
	ttl time.Duration
	now func() time.Time
}

// NewSessionStore crea el store. ttl debe coincidir con la vigencia del JWT.
func NewSessionStore(rdb *goredis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl, now: time.Now}
}

// NewClient abre el cliente y verifica la conexión con un PING.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

type sessionPayload struct {
	StaffID   string `json:"staff_id"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

func sessionKey(id string) string       { return fmt.Sprintf("insumos:sess:%s", id) }
func staffSetKey(staffID string) string { return fmt.Sprintf("insumos:staff_sessions:%s", staffID) }

func encodeSession(staffID string, now time.Time, ttl time.Duration) ([]byte, error) {
	return json.Marshal(sessionPayload{
		StaffID:   staffID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	})
}

func decodeSession(id string, b []byte) (*auth.Session, error) {
	var p sessionPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decodificar sesión: %w", err)
	}
	return &auth.Session{
		ID:        id,
		StaffID:   p.StaffID,
		IssuedAt:  time.Unix(p.IssuedAt, 0).UTC(),
		ExpiresAt: time.Unix(p.ExpiresAt, 0).UTC(),
	}, nil
}

func (s *SessionStore) Create(ctx context.Context, sessionID, staffID string) error {
	b, err := encodeSession(staffID, s.now(), s.ttl)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, sessionKey(sessionID), b, s.ttl)
	pipe.SAdd(ctx, staffSetKey(staffID), sessionID)
	pipe.Expire(ctx, staffSetKey(staffID), s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Get devuelve (nil, nil) si la sesión no existe o ya expiró.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*auth.Session, error) {
	b, err := s.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeSession(sessionID, b)
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	if sess != nil {
		pipe.SRem(ctx, staffSetKey(sess.StaffID), sessionID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// RevokeAllForStaff borra todas las sesiones del funcionario (desactivación o baja).
func (s *SessionStore) RevokeAllForStaff(ctx context.Context, staffID string) error {
	ids, err := s.rdb.SMembers(ctx, staffSetKey(staffID)).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return err
	}
	pipe := s.rdb.TxPipeline()
	for _, sid := range ids {
		pipe.Del(ctx, sessionKey(sid))
	}
	pipe.Del(ctx, staffSetKey(staffID))
	_, err = pipe.Exec(ctx)
	return err
}

var _ auth.SessionStore = (*SessionStore)(nil)
