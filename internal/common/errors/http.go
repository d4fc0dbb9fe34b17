package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// httpStatusByCode maps standardized error codes to HTTP status codes.
var httpStatusByCode = map[ErrorCode]int{
	ErrCodeRuleNotFound:         http.StatusNotFound,
	ErrCodeRuleValidationFailed: http.StatusBadRequest,

	ErrCodeDatabaseConnectionFailed: http.StatusServiceUnavailable,
	ErrCodeQueryExecutionFailed:     http.StatusInternalServerError,
	ErrCodeQueryTimeout:             http.StatusGatewayTimeout,

	ErrCodeSearchQueryFailed: http.StatusInternalServerError,
	ErrCodeSearchTimeout:     http.StatusGatewayTimeout,
	ErrCodeIndexNotFound:     http.StatusInternalServerError,

	ErrCodeJobNotFound: http.StatusNotFound,

	ErrCodeVerificationSendFailed:  http.StatusBadGateway,
	ErrCodeVerificationCheckFailed: http.StatusBadRequest,
	ErrCodeVerificationExpired:     http.StatusBadRequest,
	ErrCodeVerificationRateLimited: http.StatusTooManyRequests,
	ErrCodeInvalidPhoneNumber:      http.StatusBadRequest,
	ErrCodeInvalidCodeFormat:       http.StatusBadRequest,

	ErrCodeSessionInvalid:           http.StatusUnauthorized,
	ErrCodeSessionInvalidationError: http.StatusInternalServerError,
	ErrCodeAuthenticationRequired:   http.StatusUnauthorized,
	ErrCodePermissionDenied:         http.StatusForbidden,
	ErrCodeUserNotFound:             http.StatusNotFound,

	ErrCodePaymentProviderError: http.StatusBadGateway,
	ErrCodePaymentDeclined:      http.StatusPaymentRequired,
	ErrCodeInvalidPaymentAmount: http.StatusBadRequest,
	ErrCodePaymentNotFound:      http.StatusNotFound,

	ErrCodeNotificationSendFailed: http.StatusBadGateway,

	ErrCodeValidationFailed: http.StatusBadRequest,
}

// HTTPStatus returns the HTTP status for a standardized error code.
func HTTPStatus(code ErrorCode) int {
	if status, ok := httpStatusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the JSON envelope returned to clients on failure.
type ErrorResponse struct {
	Code    string `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// RespondError writes a standardized JSON error response. Unknown errors
// are reported as internal errors without leaking details.
func RespondError(c *gin.Context, err error) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		c.JSON(HTTPStatus(stdErr.Code), ErrorResponse{
			Code:    string(stdErr.Code),
			Type:    GetErrorCategory(stdErr.Code),
			Message: stdErr.Message,
			Details: stdErr.Details,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    "INTERNAL_ERROR",
		Type:    "OTHER",
		Message: "An unexpected error occurred",
	})
}

// providerMessages translates payment provider decline codes into
// user-readable messages. Unmapped codes fall through to a generic message.
var providerMessages = map[string]string{
	"card_declined":           "Your card was declined. Please try a different payment method.",
	"expired_card":            "Your card has expired. Please use a different card.",
	"incorrect_cvc":           "The card security code is incorrect.",
	"insufficient_funds":      "Your card has insufficient funds.",
	"processing_error":        "A processing error occurred. Please try again.",
	"rate_limit":              "Too many payment requests. Please wait a moment and try again.",
	"authentication_required": "This payment requires additional authentication.",
}

// ProviderMessage returns a user-readable message for a payment provider
// decline code.
func ProviderMessage(code string) string {
	if msg, ok := providerMessages[code]; ok {
		return msg
	}
	return "Payment could not be completed. Please try again or contact support."
}
