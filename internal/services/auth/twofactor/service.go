// internal/services/auth/twofactor/service.go
package twofactor

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/common/metrics"
	"workwise-backend/internal/common/validation"
	"workwise-backend/internal/services/notifications"

	"github.com/redis/go-redis/v9"
)

// Key scheme. Codes are stored hashed and scoped to the user, never the
// raw phone number.
const (
	codeKeyPrefix     = "auth:2fa:v1:code:"
	attemptsKeyPrefix = "auth:2fa:v1:attempts:"
	sendsKeyPrefix    = "auth:2fa:v1:sends:"
	resendKeyPrefix   = "auth:2fa:v1:resend:"
)

const (
	actionSent     = "sent"
	actionVerified = "verified"
	actionFailed   = "failed"
)

// Limits bounds code delivery and checking
type Limits struct {
	CodeTTL         time.Duration
	ResendWindow    time.Duration
	MaxAttempts     int
	MaxSendsPerHour int
}

// SessionRevoker drops a user's sessions after security changes
type SessionRevoker interface {
	InvalidateAll(ctx context.Context, userID string) error
}

// ChangeNotifier tells the user their two-factor settings changed
type ChangeNotifier interface {
	Send(ctx context.Context, req notifications.Request) (*notifications.Result, error)
}

// Service implements the two-factor verification flow
type Service struct {
	store    *Store
	redis    *redis.Client
	provider VerificationProvider
	sessions SessionRevoker
	notifier ChangeNotifier
	limits   Limits
	logger   logger.Logger
}

func NewService(store *Store, rdb *redis.Client, provider VerificationProvider, sessions SessionRevoker, notifier ChangeNotifier, limits Limits, log logger.Logger) *Service {
	return &Service{
		store:    store,
		redis:    rdb,
		provider: provider,
		sessions: sessions,
		notifier: notifier,
		limits:   limits,
		logger:   log.WithFields(map[string]interface{}{"service": "twofactor"}),
	}
}

// SendCode generates a one-time code and delivers it to the phone.
// Sends are rate limited per user per hour, with a cooldown between
// consecutive sends.
func (s *Service) SendCode(ctx context.Context, userID, phone string) error {
	if !validation.ValidatePhone(phone) {
		return errors.NewInvalidPhoneNumberError("phone must be in E.164 format, e.g. +27821234567")
	}

	if err := s.checkSendLimits(ctx, userID); err != nil {
		return err
	}

	code, err := generateCode()
	if err != nil {
		return errors.NewVerificationSendFailedError(err)
	}

	if err := s.redis.Set(ctx, codeKey(userID), hashCode(code), s.limits.CodeTTL).Err(); err != nil {
		return errors.NewVerificationSendFailedError(err)
	}
	// A fresh code resets the attempt counter
	s.redis.Del(ctx, attemptsKey(userID))

	if err := s.provider.SendCode(ctx, phone, code); err != nil {
		s.redis.Del(ctx, codeKey(userID))
		metrics.VerificationSendsTotal.WithLabelValues(s.provider.Channel(), "failed").Inc()
		return errors.NewVerificationSendFailedError(err)
	}

	s.recordSend(ctx, userID)
	metrics.VerificationSendsTotal.WithLabelValues(s.provider.Channel(), "sent").Inc()

	if err := s.store.LogVerification(ctx, userID, phone, actionSent, s.provider.Channel()); err != nil {
		s.logger.Warn("failed to write verification log", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
	}

	s.logger.Info("verification code sent", map[string]interface{}{
		"userId":  userID,
		"channel": s.provider.Channel(),
	})

	return nil
}

// VerifyCode checks a submitted code against the stored hash. The code
// is consumed on success. Attempts are capped to block brute force.
func (s *Service) VerifyCode(ctx context.Context, userID, phone, code string) error {
	if !validation.ValidateVerificationCode(code) {
		return errors.NewInvalidCodeFormatError()
	}

	storedHash, err := s.redis.Get(ctx, codeKey(userID)).Result()
	if err == redis.Nil {
		return errors.NewVerificationExpiredError()
	}
	if err != nil {
		return errors.NewVerificationCheckFailedError(err.Error())
	}

	attempts, err := s.redis.Incr(ctx, attemptsKey(userID)).Result()
	if err != nil {
		return errors.NewVerificationCheckFailedError(err.Error())
	}
	if attempts == 1 {
		s.redis.Expire(ctx, attemptsKey(userID), s.limits.CodeTTL)
	}
	if attempts > int64(s.limits.MaxAttempts) {
		s.redis.Del(ctx, codeKey(userID))
		s.logVerification(ctx, userID, phone, actionFailed)
		return errors.NewVerificationRateLimitedError("too many incorrect attempts, request a new code")
	}

	if subtle.ConstantTimeCompare([]byte(storedHash), []byte(hashCode(code))) != 1 {
		s.logVerification(ctx, userID, phone, actionFailed)
		return errors.NewVerificationCheckFailedError("incorrect verification code")
	}

	s.redis.Del(ctx, codeKey(userID))
	s.redis.Del(ctx, attemptsKey(userID))
	s.logVerification(ctx, userID, phone, actionVerified)

	return nil
}

// Enable verifies the submitted code and turns two-factor auth on for
// the user
func (s *Service) Enable(ctx context.Context, userID, phone, code string) error {
	if !validation.ValidatePhone(phone) {
		return errors.NewInvalidPhoneNumberError("phone must be in E.164 format, e.g. +27821234567")
	}

	if err := s.VerifyCode(ctx, userID, phone, code); err != nil {
		return err
	}

	if err := s.store.SetTwoFactor(ctx, userID, true, s.provider.Channel(), phone); err != nil {
		return err
	}

	s.notifyChange(ctx, userID, "enabled")
	s.logger.Info("two-factor auth enabled", map[string]interface{}{"userId": userID})
	return nil
}

// Disable turns two-factor auth off and revokes every session the user
// holds so stolen cookies cannot outlive the downgrade
func (s *Service) Disable(ctx context.Context, userID string) error {
	if err := s.store.SetTwoFactor(ctx, userID, false, "", ""); err != nil {
		return err
	}

	if err := s.sessions.InvalidateAll(ctx, userID); err != nil {
		return err
	}

	s.notifyChange(ctx, userID, "disabled")
	s.logger.Info("two-factor auth disabled", map[string]interface{}{"userId": userID})
	return nil
}

// notifyChange is best effort; a delivery failure never blocks the
// security change itself
func (s *Service) notifyChange(ctx context.Context, userID, action string) {
	if s.notifier == nil {
		return
	}
	_, err := s.notifier.Send(ctx, notifications.Request{
		UserID:   userID,
		Type:     notifications.TypeTwoFactorChanged,
		Priority: "high",
		Metadata: map[string]interface{}{"action": action},
	})
	if err != nil {
		s.logger.Warn("two-factor change notification failed", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
	}
}

func (s *Service) checkSendLimits(ctx context.Context, userID string) error {
	exists, err := s.redis.Exists(ctx, resendKey(userID)).Result()
	if err != nil {
		return errors.NewVerificationSendFailedError(err)
	}
	if exists > 0 {
		return errors.NewVerificationRateLimitedError(
			fmt.Sprintf("wait %s before requesting another code", s.limits.ResendWindow))
	}

	sends, err := s.redis.Get(ctx, sendsKey(userID)).Int()
	if err != nil && err != redis.Nil {
		return errors.NewVerificationSendFailedError(err)
	}
	if sends >= s.limits.MaxSendsPerHour {
		return errors.NewVerificationRateLimitedError("hourly send limit reached")
	}

	return nil
}

func (s *Service) recordSend(ctx context.Context, userID string) {
	count, err := s.redis.Incr(ctx, sendsKey(userID)).Result()
	if err == nil && count == 1 {
		s.redis.Expire(ctx, sendsKey(userID), time.Hour)
	}
	s.redis.Set(ctx, resendKey(userID), 1, s.limits.ResendWindow)
}

func (s *Service) logVerification(ctx context.Context, userID, phone, action string) {
	if err := s.store.LogVerification(ctx, userID, phone, action, s.provider.Channel()); err != nil {
		s.logger.Warn("failed to write verification log", map[string]interface{}{
			"userId": userID,
			"action": action,
			"error":  err.Error(),
		})
	}
}

func codeKey(userID string) string     { return codeKeyPrefix + userID }
func attemptsKey(userID string) string { return attemptsKeyPrefix + userID }
func sendsKey(userID string) string    { return sendsKeyPrefix + userID }
func resendKey(userID string) string   { return resendKeyPrefix + userID }

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func generateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
