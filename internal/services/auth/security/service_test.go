// internal/services/auth/security/service_test.go
package security

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"workwise-backend/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

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

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return NewService(NewStore(db), &testLogger{t: t}), mock
}

func settingsRow(loginNotifications, alerts bool, devices []string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"user_id", "login_notifications", "suspicious_activity_alerts",
		"trusted_devices", "backup_codes", "updated_at",
	}).AddRow("user-1", loginNotifications, alerts,
		pq.Array(devices), pq.Array([]string{}), time.Now().UTC())
}

// ==========================
// Service Tests
// ==========================

func TestGet_ReturnsDefaultsWhenUnset(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM security_settings.+WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnError(sql.ErrNoRows)

	settings, err := svc.Get(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, "user-1", settings.UserID)
	assert.True(t, settings.LoginNotifications)
	assert.True(t, settings.SuspiciousActivityAlerts)
	assert.Empty(t, settings.TrustedDevices)
	assert.NotNil(t, settings.TrustedDevices)
}

func TestGet_ReturnsSavedSettings(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM security_settings.+WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(settingsRow(false, true, []string{"device-a"}))

	settings, err := svc.Get(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.False(t, settings.LoginNotifications)
	assert.True(t, settings.SuspiciousActivityAlerts)
	assert.Equal(t, []string{"device-a"}, settings.TrustedDevices)
}

func TestUpdate_PartialUpdateKeepsOtherFields(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM security_settings.+WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(settingsRow(true, true, []string{"device-a"}))
	mock.ExpectExec(`(?s)INSERT INTO security_settings.+ON CONFLICT \(user_id\) DO UPDATE`).
		WithArgs("user-1", false, true, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	off := false
	settings, err := svc.Update(context.Background(), "user-1", SettingsUpdate{
		LoginNotifications: &off,
	})

	assert.NoError(t, err)
	assert.False(t, settings.LoginNotifications)
	assert.True(t, settings.SuspiciousActivityAlerts)
	assert.Equal(t, []string{"device-a"}, settings.TrustedDevices)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_FirstWriteStartsFromDefaults(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM security_settings.+WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`(?s)INSERT INTO security_settings.+ON CONFLICT \(user_id\) DO UPDATE`).
		WithArgs("user-1", true, false, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	off := false
	settings, err := svc.Update(context.Background(), "user-1", SettingsUpdate{
		SuspiciousActivityAlerts: &off,
	})

	assert.NoError(t, err)
	assert.True(t, settings.LoginNotifications)
	assert.False(t, settings.SuspiciousActivityAlerts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_ReplacesTrustedDevices(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM security_settings.+WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(settingsRow(true, true, []string{"device-a"}))
	mock.ExpectExec(`(?s)INSERT INTO security_settings.+ON CONFLICT \(user_id\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	settings, err := svc.Update(context.Background(), "user-1", SettingsUpdate{
		TrustedDevices: []string{"device-b", "device-c"},
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"device-b", "device-c"}, settings.TrustedDevices)
}
