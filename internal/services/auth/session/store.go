// internal/services/auth/session/store.go
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Key scheme. Sessions are addressed by token; the per-user set allows
// revoking every session a user holds.
const (
	tokenKeyPrefix = "auth:sessions:v1:token:"
	userKeyPrefix  = "auth:sessions:v1:user:"
)

// Store keeps sessions in Redis with a sliding expiry
type Store struct {
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewStore(rdb *redis.Client, ttl time.Duration, log logger.Logger) *Store {
	return &Store{
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "session-store"}),
	}
}

// Create mints a new session for the user and persists it. Login lives
// in the identity gateway that shares this Redis, so the gateway is the
// production caller; this binary only validates and invalidates the
// sessions it minted, and tests exercise Create directly.
func (s *Store) Create(ctx context.Context, user *models.User, deviceInfo, ipAddress string) (*models.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, errors.NewSessionInvalidationError(err)
	}

	now := time.Now().UTC()
	sess := &models.Session{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Token:        token,
		Permission:   user.Permission,
		DeviceInfo:   deviceInfo,
		IPAddress:    ipAddress,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
		LastActivity: now,
	}

	if err := s.persist(ctx, sess); err != nil {
		return nil, err
	}

	if err := s.redis.SAdd(ctx, userKey(user.ID), token).Err(); err != nil {
		return nil, errors.NewSessionInvalidationError(err)
	}
	// The user index outlives any single session by one TTL window so
	// stale members age out on their own.
	s.redis.Expire(ctx, userKey(user.ID), 2*s.ttl)

	return sess, nil
}

// Get resolves a token to its session, refreshing the sliding expiry
func (s *Store) Get(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, errors.NewAuthenticationRequiredError()
	}

	raw, err := s.redis.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return nil, errors.NewSessionInvalidError("unknown or expired token")
	}
	if err != nil {
		return nil, errors.NewSessionInvalidError(err.Error())
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		// Corrupt entry, drop it
		s.redis.Del(ctx, tokenKey(token))
		return nil, errors.NewSessionInvalidError("corrupt session entry")
	}

	if sess.IsExpired() {
		s.redis.Del(ctx, tokenKey(token))
		return nil, errors.NewSessionInvalidError("session expired")
	}

	sess.UpdateActivity()
	sess.ExpiresAt = time.Now().UTC().Add(s.ttl)
	if err := s.persist(ctx, &sess); err != nil {
		s.logger.Warn("failed to refresh session expiry", map[string]interface{}{
			"sessionId": sess.ID,
			"error":     err.Error(),
		})
	}

	return &sess, nil
}

// Invalidate revokes a single session
func (s *Store) Invalidate(ctx context.Context, token string) error {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return err
	}

	if err := s.redis.Del(ctx, tokenKey(token)).Err(); err != nil {
		return errors.NewSessionInvalidationError(err)
	}
	s.redis.SRem(ctx, userKey(sess.UserID), token)

	return nil
}

// InvalidateAll revokes every session held by the user. Used after
// security-sensitive changes such as disabling two-factor auth.
func (s *Store) InvalidateAll(ctx context.Context, userID string) error {
	tokens, err := s.redis.SMembers(ctx, userKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return errors.NewSessionInvalidationError(err)
	}

	for _, token := range tokens {
		if err := s.redis.Del(ctx, tokenKey(token)).Err(); err != nil {
			return errors.NewSessionInvalidationError(err)
		}
	}

	if err := s.redis.Del(ctx, userKey(userID)).Err(); err != nil {
		return errors.NewSessionInvalidationError(err)
	}

	return nil
}

func (s *Store) persist(ctx context.Context, sess *models.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return errors.NewSessionInvalidationError(err)
	}
	if err := s.redis.Set(ctx, tokenKey(sess.Token), payload, s.ttl).Err(); err != nil {
		return errors.NewSessionInvalidationError(err)
	}
	return nil
}

func tokenKey(token string) string {
	return tokenKeyPrefix + token
}

func userKey(userID string) string {
	return userKeyPrefix + userID
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
