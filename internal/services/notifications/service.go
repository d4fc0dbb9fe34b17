// internal/services/notifications/service.go
package notifications

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
)

// Notification types
const (
	TypeLoginAlert       = "login_alert"
	TypeTwoFactorChanged = "two_factor_changed"
	TypePaymentReceipt   = "payment_receipt"
	TypeNewJobMatch      = "new_job_match"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput) (*sns.PublishOutput, error)
}

// Request asks for a notification to be delivered to a user
type Request struct {
	UserID   string                 `json:"userId"`
	Type     string                 `json:"type"`
	Priority string                 `json:"priority,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Result reports what was delivered
type Result struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"`
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Config bounds delivery channels
type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
}

// Service delivers user notifications over email and SMS
type Service struct {
	config    Config
	db        *sql.DB
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
	templates map[string]map[string]string
}

func NewService(config Config, db *sql.DB, sesClient SESService, snsClient SNSService, log logger.Logger) *Service {
	return &Service{
		config:    config,
		db:        db,
		logger:    log.WithFields(map[string]interface{}{"service": "notifications"}),
		sesClient: sesClient,
		snsClient: snsClient,
		templates: loadTemplates(),
	}
}

// Send renders the template for the notification type and delivers it.
// Users without contact details get a disabled result, not an error.
func (s *Service) Send(ctx context.Context, req Request) (*Result, error) {
	email, phone, err := s.recipientContact(ctx, req.UserID)
	if err != nil {
		s.logger.Warn("recipient not found", map[string]interface{}{
			"userId": req.UserID,
		})
		notificationID := uuid.NewString()
		s.logDelivery(ctx, notificationID, req.UserID, req.Type, "", StatusDisabled)
		return &Result{
			NotificationID: notificationID,
			Status:         StatusDisabled,
			SentAt:         time.Now().UTC().Format(time.RFC3339),
		}, nil
	}

	template, exists := s.templates[req.Type]
	if !exists {
		return nil, errors.NewNotificationSendFailedError("template",
			fmt.Errorf("no template for type %q", req.Type))
	}

	data := map[string]interface{}{
		"userId": req.UserID,
		"type":   req.Type,
	}
	for k, v := range req.Metadata {
		data[k] = v
	}

	subject := renderTemplate(template["subject"], data)
	body := renderTemplate(template["body"], data)

	notificationID := uuid.NewString()
	sentAt := time.Now().UTC().Format(time.RFC3339)

	emailSent := false
	smsSent := false

	if s.config.EmailEnabled && email != "" {
		if err := s.sendEmail(ctx, email, subject, body); err != nil {
			s.logger.Error("email send failed", map[string]interface{}{
				"error": err,
				"email": email,
			})
			s.logDelivery(ctx, notificationID, req.UserID, req.Type, "email", StatusFailed)
			return &Result{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt}, nil
		}
		emailSent = true
	}

	// SMS is reserved for high priority notifications
	if s.config.SMSEnabled && phone != "" && req.Priority == "high" {
		if err := s.sendSMS(ctx, phone, body); err != nil {
			s.logger.Error("SMS send failed", map[string]interface{}{
				"error": err,
				"phone": phone,
			})
			s.logDelivery(ctx, notificationID, req.UserID, req.Type, "sms", StatusFailed)
			return &Result{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt}, nil
		}
		smsSent = true
	}

	status := StatusDisabled
	if emailSent || smsSent {
		status = StatusSent
	}
	s.logDelivery(ctx, notificationID, req.UserID, req.Type, deliveryChannel(emailSent, smsSent), status)

	return &Result{
		NotificationID: notificationID,
		Status:         status,
		SentAt:         sentAt,
	}, nil
}

// logDelivery appends a row to the notification log. Logging failures are
// reported but never fail the delivery itself.
func (s *Service) logDelivery(ctx context.Context, notificationID, userID, notificationType, channel, status string) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, notification_type, channel, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		notificationID, userID, notificationType, channel, status, time.Now().UTC())
	if err != nil {
		s.logger.Warn("failed to log notification", map[string]interface{}{
			"notificationId": notificationID,
			"error":          err.Error(),
		})
	}
}

// deliveryChannel names which channels carried the notification
func deliveryChannel(emailSent, smsSent bool) string {
	switch {
	case emailSent && smsSent:
		return "email+sms"
	case emailSent:
		return "email"
	case smsSent:
		return "sms"
	default:
		return ""
	}
}

func (s *Service) recipientContact(ctx context.Context, userID string) (string, string, error) {
	var email string
	var phone sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT email, two_factor_phone FROM users WHERE id = $1`, userID).
		Scan(&email, &phone)
	return email, phone.String, err
}

func (s *Service) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := s.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
				Html: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(s.config.FromEmail),
	})
	return err
}

func (s *Service) sendSMS(ctx context.Context, to, message string) error {
	_, err := s.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}
