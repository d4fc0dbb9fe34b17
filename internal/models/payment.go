// internal/models/payment.go
package models

import "time"

// Supported payment currencies
var SupportedCurrencies = []string{"ZAR", "USD", "EUR"}

// MinPaymentAmount is the smallest accepted charge, in major currency units
const MinPaymentAmount = 100

// PaymentRequest is a client request to start a payment
type PaymentRequest struct {
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Payment records a created payment intent
type Payment struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	IntentID    string    `json:"intentId" db:"intent_id"`
	Amount      int64     `json:"amount" db:"amount"`
	Currency    string    `json:"currency" db:"currency"`
	Status      string    `json:"status" db:"status"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// IsSupportedCurrency reports whether the currency can be charged
func IsSupportedCurrency(currency string) bool {
	for _, c := range SupportedCurrencies {
		if c == currency {
			return true
		}
	}
	return false
}
