// internal/services/auth/twofactor/service_test.go
package twofactor

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/services/notifications"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	}), mr
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

type stubProvider struct {
	sent []string // phone numbers
	code string   // last code delivered
	err  error
}

func (s *stubProvider) SendCode(ctx context.Context, phone, code string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, phone)
	s.code = code
	return nil
}

func (s *stubProvider) Channel() string { return ChannelWhatsApp }

type stubRevoker struct {
	revoked []string
	err     error
}

func (s *stubRevoker) InvalidateAll(ctx context.Context, userID string) error {
	s.revoked = append(s.revoked, userID)
	return s.err
}

func testLimits() Limits {
	return Limits{
		CodeTTL:         10 * time.Minute,
		ResendWindow:    time.Minute,
		MaxAttempts:     5,
		MaxSendsPerHour: 5,
	}
}

type stubNotifier struct {
	requests []notifications.Request
	err      error
}

func (s *stubNotifier) Send(ctx context.Context, req notifications.Request) (*notifications.Result, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return &notifications.Result{Status: notifications.StatusSent}, nil
}

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, *miniredis.Miniredis, *stubProvider, *stubRevoker) {
	rdb, mr := setupRedis(t)
	db, mock := setupMockDB(t)
	provider := &stubProvider{}
	revoker := &stubRevoker{}
	svc := NewService(NewStore(db), rdb, provider, revoker, &stubNotifier{}, testLimits(), &testLogger{t: t})
	return svc, mock, mr, provider, revoker
}

func expectVerificationLog(mock sqlmock.Sqlmock, action string) {
	mock.ExpectExec(`INSERT INTO verification_logs`).
		WithArgs(sqlmock.AnyArg(), "user-1", "+27821234567", action, ChannelWhatsApp, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
}

const testPhone = "+27821234567"

// ==========================
// Send Tests
// ==========================

func TestSendCode_DeliversAndStoresHash(t *testing.T) {
	svc, mock, mr, provider, _ := newTestService(t)
	expectVerificationLog(mock, actionSent)

	err := svc.SendCode(context.Background(), "user-1", testPhone)

	assert.NoError(t, err)
	assert.Equal(t, []string{testPhone}, provider.sent)
	assert.Regexp(t, `^\d{6}$`, provider.code)

	// Only the hash is stored
	stored, err := mr.Get(codeKey("user-1"))
	assert.NoError(t, err)
	assert.Equal(t, hashCode(provider.code), stored)
	assert.NotContains(t, stored, provider.code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendCode_RejectsInvalidPhone(t *testing.T) {
	svc, _, _, provider, _ := newTestService(t)

	tests := []string{"0821234567", "+0123", "not-a-phone", "", "+2782123456789012345"}
	for _, phone := range tests {
		err := svc.SendCode(context.Background(), "user-1", phone)
		var stdErr *errors.StandardError
		assert.ErrorAs(t, err, &stdErr, "phone %q", phone)
		assert.Equal(t, errors.ErrCodeInvalidPhoneNumber, stdErr.Code)
	}
	assert.Empty(t, provider.sent)
}

func TestSendCode_ResendCooldown(t *testing.T) {
	svc, mock, mr, _, _ := newTestService(t)
	expectVerificationLog(mock, actionSent)

	assert.NoError(t, svc.SendCode(context.Background(), "user-1", testPhone))

	err := svc.SendCode(context.Background(), "user-1", testPhone)
	var stdErr *errors.StandardError
	assert.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeVerificationRateLimited, stdErr.Code)

	// Cooldown lapses, next send goes through
	mr.FastForward(2 * time.Minute)
	expectVerificationLog(mock, actionSent)
	assert.NoError(t, svc.SendCode(context.Background(), "user-1", testPhone))
}

func TestSendCode_HourlyLimit(t *testing.T) {
	svc, mock, mr, _, _ := newTestService(t)

	for i := 0; i < 5; i++ {
		expectVerificationLog(mock, actionSent)
		assert.NoError(t, svc.SendCode(context.Background(), "user-1", testPhone))
		mr.FastForward(2 * time.Minute)
	}

	err := svc.SendCode(context.Background(), "user-1", testPhone)
	var stdErr *errors.StandardError
	assert.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeVerificationRateLimited, stdErr.Code)
}

func TestSendCode_ProviderFailureClearsCode(t *testing.T) {
	svc, _, mr, provider, _ := newTestService(t)
	provider.err = assert.AnError

	err := svc.SendCode(context.Background(), "user-1", testPhone)

	var stdErr *errors.StandardError
	assert.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeVerificationSendFailed, stdErr.Code)
	assert.False(t, mr.Exists(codeKey("user-1")))
}

// ==========================
// Verify Tests
// ==========================

func TestVerifyCode_Succeeds(t *testing.T) {
	svc, mock, mr, provider, _ := newTestService(t)
	expectVerificationLog(mock, actionSent)
	assert.NoError(t, svc.SendCode(context.Background(), "user-1", testPhone))

	expectVerificationLog(mock, actionVerified)
	err := svc.VerifyCode(context.Background(), "user-1", testPhone, provider.code)

	assert.NoError(t, err)
	// Code is consumed
	assert.False(t, mr.Exists(codeKey("user-1")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyCode_RejectsBadFormat(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	tests := []string{"12345", "1234567", "abc123", ""}
	for _, code := range tests {
		err := svc.VerifyCode(context.Background(), "user-1", testPhone, code)
		var stdErr *errors.StandardError
		assert.ErrorAs(t, err, &stdErr, "code %q", code)
		assert.Equal(t, errors.ErrCodeInvalidCodeFormat, stdErr.Code)
	}
}

func TestVerifyCode_ExpiredOrMissing(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	err := svc.VerifyCode(context.Background(), "user-1", testPhone, "123456")

	var stdErr *errors.StandardError
	assert.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeVerificationExpired, stdErr.Code)
}

func TestVerifyCode_WrongCode(t *testing.T) {
	svc, mock, _, provider, _ := newTestService(t)
	expectVerificationLog(mock, actionSent)
	assert.NoError(t, svc.SendCode(context.Background(), "user-1", testPhone))

	wrong := "000000"
	if provider.code == wrong {
		wrong = "000001"
	}

	expectVerificationLog(mock, actionFailed)
	err := svc.VerifyCode(context.Background(), "user-1", testPhone, wrong)

	var stdErr *errors.StandardError
	assert.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeVerificationCheckFailed, stdErr.Code)
}

func TestVerifyCode_AttemptsCapped(t *testing.T) {
	svc, mock, mr, provider, _ := newTestService(t)
	expectVerificationLog(mock, actionSent)
	assert.NoError(t, svc.SendCode(context.Background(), "user-1", testPhone))

	wrong := "000000"
	if provider.code == wrong {
		wrong = "000001"
	}

	for i := 0; i < 5; i++ {
		expectVerificationLog(mock, actionFailed)
		err := svc.VerifyCode(context.Background(), "user-1", testPhone, wrong)
		var stdErr *errors.StandardError
		assert.ErrorAs(t, err, &stdErr)
		assert.Equal(t, errors.ErrCodeVerificationCheckFailed, stdErr.Code)
	}

	// Sixth attempt trips the cap and burns the code, even if correct
	expectVerificationLog(mock, actionFailed)
	err := svc.VerifyCode(context.Background(), "user-1", testPhone, provider.code)
	var stdErr *errors.StandardError
	assert.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeVerificationRateLimited, stdErr.Code)
	assert.False(t, mr.Exists(codeKey("user-1")))
}

// ==========================
// Enable / Disable Tests
// ==========================

func TestEnable_VerifiesCodeThenFlipsFlag(t *testing.T) {
	svc, mock, _, provider, _ := newTestService(t)
	expectVerificationLog(mock, actionSent)
	assert.NoError(t, svc.SendCode(context.Background(), "user-1", testPhone))

	expectVerificationLog(mock, actionVerified)
	mock.ExpectExec(`(?s)UPDATE users.+SET two_factor_enabled`).
		WithArgs("user-1", true, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.Enable(context.Background(), "user-1", testPhone, provider.code)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnable_WrongCodeLeavesFlagAlone(t *testing.T) {
	svc, mock, _, provider, _ := newTestService(t)
	expectVerificationLog(mock, actionSent)
	assert.NoError(t, svc.SendCode(context.Background(), "user-1", testPhone))

	wrong := "000000"
	if provider.code == wrong {
		wrong = "000001"
	}

	expectVerificationLog(mock, actionFailed)
	err := svc.Enable(context.Background(), "user-1", testPhone, wrong)

	assert.Error(t, err)
	// No UPDATE was expected or run
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisable_RevokesSessions(t *testing.T) {
	svc, mock, _, _, revoker := newTestService(t)

	mock.ExpectExec(`(?s)UPDATE users.+SET two_factor_enabled`).
		WithArgs("user-1", false, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.Disable(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, revoker.revoked)
}

func TestDisable_UnknownUser(t *testing.T) {
	svc, mock, _, _, revoker := newTestService(t)

	mock.ExpectExec(`(?s)UPDATE users.+SET two_factor_enabled`).
		WithArgs("ghost", false, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.Disable(context.Background(), "ghost")

	var stdErr *errors.StandardError
	assert.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeUserNotFound, stdErr.Code)
	assert.Empty(t, revoker.revoked)
}
