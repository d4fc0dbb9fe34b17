// internal/services/payments/store.go
package payments

import (
	"context"
	"database/sql"
	"time"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/models"

	"github.com/google/uuid"
)

// Store records created payment intents for reconciliation
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record writes a payment row for a freshly created intent
func (s *Store) Record(ctx context.Context, userID, intentID string, amount int64, currency, status, description string) (*models.Payment, error) {
	now := time.Now().UTC()
	payment := &models.Payment{
		ID:          uuid.NewString(),
		UserID:      userID,
		IntentID:    intentID,
		Amount:      amount,
		Currency:    currency,
		Status:      status,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, user_id, intent_id, amount, currency, status, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		payment.ID, payment.UserID, payment.IntentID, payment.Amount,
		payment.Currency, payment.Status, payment.Description,
		payment.CreatedAt, payment.UpdatedAt)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("record payment", err)
	}

	return payment, nil
}

// GetByIntent returns the payment recorded for a provider intent
func (s *Store) GetByIntent(ctx context.Context, intentID string) (*models.Payment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, intent_id, amount, currency, status, description, created_at, updated_at
		FROM payments
		WHERE intent_id = $1`, intentID)

	var p models.Payment
	err := row.Scan(&p.ID, &p.UserID, &p.IntentID, &p.Amount,
		&p.Currency, &p.Status, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewPaymentNotFoundError(intentID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get payment by intent", err)
	}

	return &p, nil
}

// UpdateStatus moves a payment to a new provider status
func (s *Store) UpdateStatus(ctx context.Context, intentID, status string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE payments
		SET status = $2, updated_at = $3
		WHERE intent_id = $1`,
		intentID, status, time.Now().UTC())
	if err != nil {
		return errors.NewQueryExecutionFailedError("update payment status", err)
	}
	return nil
}

// ListByUser returns the user's payments, newest first
func (s *Store) ListByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, intent_id, amount, currency, status, description, created_at, updated_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list payments", err)
	}
	defer rows.Close()

	var result []models.Payment
	for rows.Next() {
		var p models.Payment
		err := rows.Scan(&p.ID, &p.UserID, &p.IntentID, &p.Amount,
			&p.Currency, &p.Status, &p.Description, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan payment", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("iterate payments", err)
	}

	return result, nil
}
