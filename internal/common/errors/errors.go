// Package errors provides standardized error handling for the API layer.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeRuleNotFound         ErrorCode = "RULE_NOT_FOUND"
	ErrCodeRuleValidationFailed ErrorCode = "RULE_VALIDATION_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound     ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeJobNotFound ErrorCode = "JOB_NOT_FOUND"

	ErrCodeVerificationSendFailed  ErrorCode = "VERIFICATION_SEND_FAILED"
	ErrCodeVerificationCheckFailed ErrorCode = "VERIFICATION_CHECK_FAILED"
	ErrCodeVerificationExpired     ErrorCode = "VERIFICATION_EXPIRED"
	ErrCodeVerificationRateLimited ErrorCode = "VERIFICATION_RATE_LIMITED"
	ErrCodeInvalidPhoneNumber      ErrorCode = "INVALID_PHONE_NUMBER"
	ErrCodeInvalidCodeFormat       ErrorCode = "INVALID_CODE_FORMAT"

	ErrCodeSessionInvalid           ErrorCode = "SESSION_INVALID"
	ErrCodeSessionInvalidationError ErrorCode = "SESSION_INVALIDATION_ERROR"
	ErrCodeAuthenticationRequired   ErrorCode = "AUTHENTICATION_REQUIRED"
	ErrCodePermissionDenied         ErrorCode = "PERMISSION_DENIED"
	ErrCodeUserNotFound             ErrorCode = "USER_NOT_FOUND"

	ErrCodePaymentProviderError ErrorCode = "PAYMENT_PROVIDER_ERROR"
	ErrCodePaymentDeclined      ErrorCode = "PAYMENT_DECLINED"
	ErrCodeInvalidPaymentAmount ErrorCode = "INVALID_PAYMENT_AMOUNT"
	ErrCodePaymentNotFound      ErrorCode = "PAYMENT_NOT_FOUND"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewRuleNotFoundError creates a non-retryable not-found error.
func NewRuleNotFoundError(ruleID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRuleNotFound,
		Message:   "Marketing rule not found",
		Details:   fmt.Sprintf("ruleId: %s", ruleID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRuleValidationFailedError creates a non-retryable validation error.
func NewRuleValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRuleValidationFailed,
		Message:   "Marketing rule validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Elasticsearch query error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Elasticsearch query timeout",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(indexName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexNotFound,
		Message:   "Elasticsearch index not found",
		Details:   fmt.Sprintf("indexName: %s", indexName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewJobNotFoundError creates a non-retryable not-found error.
func NewJobNotFoundError(jobID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeJobNotFound,
		Message:   "Job listing not found",
		Details:   fmt.Sprintf("jobId: %s", jobID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewVerificationSendFailedError creates a retryable delivery error.
func NewVerificationSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeVerificationSendFailed,
		Message:   "Failed to send verification code",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewVerificationCheckFailedError creates a non-retryable verification error.
func NewVerificationCheckFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeVerificationCheckFailed,
		Message:   "Invalid verification code",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewVerificationExpiredError creates a non-retryable expiry error.
func NewVerificationExpiredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeVerificationExpired,
		Message:   "Verification code has expired",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewVerificationRateLimitedError creates a non-retryable rate-limit error.
func NewVerificationRateLimitedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeVerificationRateLimited,
		Message:   "Too many verification attempts",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPhoneNumberError creates a non-retryable format error.
func NewInvalidPhoneNumberError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPhoneNumber,
		Message:   "Invalid phone number format",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCodeFormatError creates a non-retryable format error.
func NewInvalidCodeFormatError() *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCodeFormat,
		Message:   "Verification code must be 6 digits",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionInvalidError creates a non-retryable session error.
func NewSessionInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionInvalid,
		Message:   "Session is invalid or expired",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionInvalidationError creates a retryable error for failed
// session revocation.
func NewSessionInvalidationError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionInvalidationError,
		Message:   "Failed to invalidate session",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthenticationRequiredError creates a non-retryable auth error.
func NewAuthenticationRequiredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthenticationRequired,
		Message:   "User must be authenticated",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPermissionDeniedError creates a non-retryable permission error.
func NewPermissionDeniedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePermissionDenied,
		Message:   "Permission denied",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserNotFoundError creates a non-retryable not-found error.
func NewUserNotFoundError(userID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUserNotFound,
		Message:   "User not found",
		Details:   fmt.Sprintf("userId: %s", userID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPaymentProviderError creates a retryable provider error.
func NewPaymentProviderError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePaymentProviderError,
		Message:   "Payment provider error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPaymentDeclinedError creates a non-retryable decline error.
func NewPaymentDeclinedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePaymentDeclined,
		Message:   "Payment was declined",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPaymentAmountError creates a non-retryable validation error.
func NewInvalidPaymentAmountError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPaymentAmount,
		Message:   "Invalid payment amount",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPaymentNotFoundError creates a non-retryable lookup error.
func NewPaymentNotFoundError(intentID string) *StandardError {
	return &StandardError{
		Code:      ErrCodePaymentNotFound,
		Message:   "Payment not found",
		Details:   fmt.Sprintf("intentId: %s", intentID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable request validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "RULE"):
		return "MARKETING"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "VERIFICATION") || strings.Contains(codeStr, "PHONE") || strings.Contains(codeStr, "CODE_FORMAT"):
		return "VERIFICATION"
	case strings.Contains(codeStr, "SESSION") || strings.Contains(codeStr, "AUTH") || strings.Contains(codeStr, "PERMISSION"):
		return "AUTH"
	case strings.Contains(codeStr, "PAYMENT"):
		return "PAYMENT"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
