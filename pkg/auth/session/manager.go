// Package session tracks refresh sessions in Redis. Each session is keyed by
// the access token's jti, so revoking the key invalidates both tokens.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/angelmondragon/roomreserve-backend/pkg/config"
	redisclient "github.com/angelmondragon/roomreserve-backend/pkg/redis"
)

const refreshTokenBytes = 32

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	errMissingAccessID     = errors.New("access id is required")
)

// Store is the slice of the Redis client the manager relies on.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// AccessSessionChecker is what the auth middleware needs to reject revoked tokens.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// Session is a freshly issued refresh session. AccessID is the JWT jti.
type Session struct {
	AccessID     string
	RefreshToken string
	ExpiresAt    time.Time
}

type Manager struct {
	store Store
	ttl   time.Duration
	clock func() time.Time
}

// NewManager builds a manager on the shared Redis client. The refresh TTL
// must outlive the access token it is paired with.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	refreshTTL := cfg.RefreshTokenTTL()
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	switch {
	case refreshTTL <= 0:
		return nil, errors.New("refresh token ttl must be positive")
	case refreshTTL <= accessTTL:
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", refreshTTL, accessTTL)
	}
	return newManager(client, refreshTTL, time.Now), nil
}

func newManager(store Store, ttl time.Duration, clock func() time.Time) *Manager {
	if clock == nil {
		clock = time.Now
	}
	return &Manager{store: store, ttl: ttl, clock: clock}
}

// TTL reports how long refresh tokens remain valid.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue opens a session under a new access ID.
func (m *Manager) Issue(ctx context.Context) (Session, error) {
	token, err := newRefreshToken()
	if err != nil {
		return Session{}, err
	}
	accessID := NewAccessID()
	if err := m.store.Set(ctx, m.store.AccessSessionKey(accessID), fingerprint(token), m.ttl); err != nil {
		return Session{}, fmt.Errorf("store refresh session: %w", err)
	}
	return Session{
		AccessID:     accessID,
		RefreshToken: token,
		ExpiresAt:    m.clock().UTC().Add(m.ttl),
	}, nil
}

// Rotate consumes the session for oldAccessID when provided matches and
// returns its replacement. A consumed or unknown session yields
// ErrInvalidRefreshToken.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, provided string) (Session, error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(provided) == "" {
		return Session{}, ErrInvalidRefreshToken
	}

	key := m.store.AccessSessionKey(oldAccessID)
	stored, err := m.store.Get(ctx, key)
	switch {
	case errors.Is(err, redislib.Nil):
		return Session{}, ErrInvalidRefreshToken
	case err != nil:
		return Session{}, fmt.Errorf("load refresh session: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(fingerprint(provided))) != 1 {
		return Session{}, ErrInvalidRefreshToken
	}

	if err := m.store.Del(ctx, key); err != nil {
		return Session{}, fmt.Errorf("consume refresh session: %w", err)
	}
	return m.Issue(ctx)
}

// Revoke ends the session tied to accessID. Unknown IDs are not an error.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return errMissingAccessID
	}
	return m.store.Del(ctx, m.store.AccessSessionKey(accessID))
}

func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, errMissingAccessID
	}
	_, err := m.store.Get(ctx, m.store.AccessSessionKey(accessID))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redislib.Nil):
		return false, nil
	default:
		return false, err
	}
}

// NewAccessID returns a fresh jti.
func NewAccessID() string {
	return uuid.NewString()
}

func newRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// fingerprint is what Redis holds in place of the raw refresh token.
func fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
