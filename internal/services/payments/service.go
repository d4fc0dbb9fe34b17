// internal/services/payments/service.go
package payments

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/common/metrics"
	"workwise-backend/internal/common/payments"
	"workwise-backend/internal/models"
)

// PaymentProvider creates payment intents with an external processor.
// Amounts are in minor units (cents).
type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency, description string, metadata map[string]string) (*payments.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, intentID string) (*payments.PaymentIntent, error)
}

// Service validates and creates payments
type Service struct {
	store    *Store
	provider PaymentProvider
	logger   logger.Logger
}

func NewService(store *Store, provider PaymentProvider, log logger.Logger) *Service {
	return &Service{
		store:    store,
		provider: provider,
		logger:   log.WithFields(map[string]interface{}{"service": "payments"}),
	}
}

// CreateIntent validates the request, creates the provider intent and
// records it. Request amounts are in major currency units; the provider
// is charged in cents.
func (s *Service) CreateIntent(ctx context.Context, userID string, req models.PaymentRequest) (*payments.PaymentIntent, error) {
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))

	if req.Amount < models.MinPaymentAmount {
		return nil, errors.NewInvalidPaymentAmountError(
			fmt.Sprintf("amount must be at least %d %s", models.MinPaymentAmount, currency))
	}
	if !models.IsSupportedCurrency(currency) {
		return nil, errors.NewInvalidPaymentAmountError(
			fmt.Sprintf("unsupported currency %q, use one of %s",
				req.Currency, strings.Join(models.SupportedCurrencies, ", ")))
	}

	metadata := map[string]string{"userId": userID}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	intent, err := s.provider.CreatePaymentIntent(ctx, req.Amount*100, strings.ToLower(currency), req.Description, metadata)
	if err != nil {
		metrics.PaymentIntentsTotal.WithLabelValues(currency, "failed").Inc()
		return nil, wrapProviderError(err)
	}

	metrics.PaymentIntentsTotal.WithLabelValues(currency, intent.Status).Inc()

	if _, err := s.store.Record(ctx, userID, intent.ID, req.Amount, currency, intent.Status, req.Description); err != nil {
		// The intent exists at the provider either way; reconciliation
		// picks the row up later.
		s.logger.Warn("failed to record payment intent", map[string]interface{}{
			"intentId": intent.ID,
			"error":    err.Error(),
		})
	}

	s.logger.Info("payment intent created", map[string]interface{}{
		"intentId": intent.ID,
		"currency": currency,
		"amount":   req.Amount,
	})

	return intent, nil
}

// History returns the user's payment records
func (s *Service) History(ctx context.Context, userID string) ([]models.Payment, error) {
	return s.store.ListByUser(ctx, userID)
}

// SyncStatus refreshes a payment's status from the provider. Payments
// belonging to other users are reported as not found.
func (s *Service) SyncStatus(ctx context.Context, userID, intentID string) (*models.Payment, error) {
	payment, err := s.store.GetByIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, errors.NewPaymentNotFoundError(intentID)
	}

	intent, err := s.provider.GetPaymentIntent(ctx, intentID)
	if err != nil {
		return nil, wrapProviderError(err)
	}

	if intent.Status != payment.Status {
		if err := s.store.UpdateStatus(ctx, intentID, intent.Status); err != nil {
			return nil, err
		}

		s.logger.Info("payment status updated", map[string]interface{}{
			"intentId": intentID,
			"from":     payment.Status,
			"to":       intent.Status,
		})

		payment.Status = intent.Status
	}

	return payment, nil
}

// wrapProviderError distinguishes declines from transport or processor
// faults
func wrapProviderError(err error) error {
	var provErr *payments.ProviderError
	if stderrors.As(err, &provErr) {
		if provErr.Type == "card_error" {
			return errors.NewPaymentDeclinedError(errors.ProviderMessage(provErr.Code))
		}
		return errors.NewPaymentProviderError(provErr)
	}
	return errors.NewPaymentProviderError(err)
}
