// internal/services/notifications/service_test.go
package notifications

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"workwise-backend/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params)
}

// ==========================
// Test Helper Functions
// ==========================

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

func testConfig() Config {
	return Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "noreply@workwise.example",
	}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func expectContactLookup(mock sqlmock.Sqlmock, email, phone string) {
	mock.ExpectQuery(`SELECT email, two_factor_phone FROM users`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"email", "two_factor_phone"}).
			AddRow(email, phone))
}

func expectDeliveryLog(mock sqlmock.Sqlmock, notificationType, channel, status string) {
	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(sqlmock.AnyArg(), "user-1", notificationType, channel, status, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
}

func okSES() *MockSESService {
	return &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
			return &ses.SendEmailOutput{}, nil
		},
	}
}

func okSNS() *MockSNSService {
	return &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput) (*sns.PublishOutput, error) {
			return &sns.PublishOutput{}, nil
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestSend_EmailDelivered(t *testing.T) {
	db, mock := setupMockDB(t)
	expectContactLookup(mock, "thandi@example.com", "")
	expectDeliveryLog(mock, TypeLoginAlert, "email", StatusSent)

	var sentTo string
	var sentSubject string
	sesMock := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
			sentTo = params.Destination.ToAddresses[0]
			sentSubject = *params.Message.Subject.Data
			return &ses.SendEmailOutput{}, nil
		},
	}

	svc := NewService(testConfig(), db, sesMock, okSNS(), &testLogger{t: t})
	result, err := svc.Send(context.Background(), Request{
		UserID: "user-1",
		Type:   TypeLoginAlert,
		Metadata: map[string]interface{}{
			"deviceInfo": "Chrome on Android",
			"ipAddress":  "196.1.2.3",
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusSent, result.Status)
	assert.Equal(t, "thandi@example.com", sentTo)
	assert.Equal(t, "New sign-in to your WorkWise account", sentSubject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSend_HighPriorityAlsoSendsSMS(t *testing.T) {
	db, mock := setupMockDB(t)
	expectContactLookup(mock, "thandi@example.com", "+27821234567")
	expectDeliveryLog(mock, TypeTwoFactorChanged, "email+sms", StatusSent)

	var smsPhone string
	snsMock := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput) (*sns.PublishOutput, error) {
			smsPhone = *params.PhoneNumber
			return &sns.PublishOutput{}, nil
		},
	}

	svc := NewService(testConfig(), db, okSES(), snsMock, &testLogger{t: t})
	result, err := svc.Send(context.Background(), Request{
		UserID:   "user-1",
		Type:     TypeTwoFactorChanged,
		Priority: "high",
		Metadata: map[string]interface{}{"action": "disabled"},
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusSent, result.Status)
	assert.Equal(t, "+27821234567", smsPhone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSend_NormalPrioritySkipsSMS(t *testing.T) {
	db, mock := setupMockDB(t)
	expectContactLookup(mock, "thandi@example.com", "+27821234567")
	expectDeliveryLog(mock, TypeNewJobMatch, "email", StatusSent)

	smsCalled := false
	snsMock := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput) (*sns.PublishOutput, error) {
			smsCalled = true
			return &sns.PublishOutput{}, nil
		},
	}

	svc := NewService(testConfig(), db, okSES(), snsMock, &testLogger{t: t})
	result, err := svc.Send(context.Background(), Request{
		UserID: "user-1",
		Type:   TypeNewJobMatch,
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusSent, result.Status)
	assert.False(t, smsCalled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSend_UnknownRecipientIsDisabled(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT email, two_factor_phone FROM users`).
		WithArgs("user-1").
		WillReturnError(sql.ErrNoRows)
	expectDeliveryLog(mock, TypeLoginAlert, "", StatusDisabled)

	svc := NewService(testConfig(), db, okSES(), okSNS(), &testLogger{t: t})
	result, err := svc.Send(context.Background(), Request{
		UserID: "user-1",
		Type:   TypeLoginAlert,
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusDisabled, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSend_UnknownTemplateFails(t *testing.T) {
	db, mock := setupMockDB(t)
	expectContactLookup(mock, "thandi@example.com", "")

	svc := NewService(testConfig(), db, okSES(), okSNS(), &testLogger{t: t})
	_, err := svc.Send(context.Background(), Request{
		UserID: "user-1",
		Type:   "no_such_type",
	})

	assert.Error(t, err)
}

func TestSend_EmailFailureReported(t *testing.T) {
	db, mock := setupMockDB(t)
	expectContactLookup(mock, "thandi@example.com", "")
	expectDeliveryLog(mock, TypeLoginAlert, "email", StatusFailed)

	sesMock := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
			return nil, errors.New("SES throttled")
		},
	}

	svc := NewService(testConfig(), db, sesMock, okSNS(), &testLogger{t: t})
	result, err := svc.Send(context.Background(), Request{
		UserID: "user-1",
		Type:   TypeLoginAlert,
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusFailed, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSend_AllChannelsDisabled(t *testing.T) {
	db, mock := setupMockDB(t)
	expectContactLookup(mock, "thandi@example.com", "+27821234567")
	expectDeliveryLog(mock, TypeLoginAlert, "", StatusDisabled)

	svc := NewService(Config{FromEmail: "noreply@workwise.example"}, db, okSES(), okSNS(), &testLogger{t: t})
	result, err := svc.Send(context.Background(), Request{
		UserID:   "user-1",
		Type:     TypeLoginAlert,
		Priority: "high",
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusDisabled, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Template Tests
// ==========================

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		data map[string]interface{}
		want string
	}{
		{
			name: "string substitution",
			tmpl: "Hello {{name}}",
			data: map[string]interface{}{"name": "Thandi"},
			want: "Hello Thandi",
		},
		{
			name: "integer substitution",
			tmpl: "You have {{count}} new matches",
			data: map[string]interface{}{"count": 3},
			want: "You have 3 new matches",
		},
		{
			name: "missing placeholder removed",
			tmpl: "Payment of {{amount}} {{currency}} received",
			data: map[string]interface{}{"amount": "500"},
			want: "Payment of 500  received",
		},
		{
			name: "no placeholders",
			tmpl: "Plain message",
			data: nil,
			want: "Plain message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderTemplate(tt.tmpl, tt.data))
		})
	}
}
