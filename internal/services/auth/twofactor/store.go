// internal/services/auth/twofactor/store.go
package twofactor

import (
	"context"
	"database/sql"
	"time"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/models"

	"github.com/google/uuid"
)

// Store persists user two-factor state and the verification audit log
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetUser loads the fields the two-factor flow needs
func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, permission, two_factor_enabled, two_factor_method, two_factor_phone
		FROM users
		WHERE id = $1`, userID)

	var user models.User
	var method, phone sql.NullString
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Permission,
		&user.TwoFactorEnabled, &method, &phone)
	if err == sql.ErrNoRows {
		return nil, errors.NewUserNotFoundError(userID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get user", err)
	}
	user.TwoFactorMethod = method.String
	user.TwoFactorPhone = phone.String

	return &user, nil
}

// SetTwoFactor enables or disables two-factor auth for the user
func (s *Store) SetTwoFactor(ctx context.Context, userID string, enabled bool, method, phone string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET two_factor_enabled = $2, two_factor_method = $3, two_factor_phone = $4, updated_at = $5
		WHERE id = $1`,
		userID, enabled, nullable(method), nullable(phone), time.Now().UTC())
	if err != nil {
		return errors.NewQueryExecutionFailedError("update two-factor settings", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("update two-factor settings", err)
	}
	if affected == 0 {
		return errors.NewUserNotFoundError(userID)
	}

	return nil
}

// LogVerification appends an entry to the verification audit log
func (s *Store) LogVerification(ctx context.Context, userID, phone, action, channel string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO verification_logs (id, user_id, phone, action, channel, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), userID, phone, action, channel, time.Now().UTC())
	if err != nil {
		return errors.NewQueryExecutionFailedError("log verification event", err)
	}
	return nil
}

func nullable(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
