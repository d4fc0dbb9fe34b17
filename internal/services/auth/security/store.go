// internal/services/auth/security/store.go
package security

import (
	"context"
	"database/sql"
	"time"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/models"

	"github.com/lib/pq"
)

// Store persists per-user security preferences
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get loads the user's security settings. Returns sql.ErrNoRows wrapped
// as nil settings when the user has never saved any.
func (s *Store) Get(ctx context.Context, userID string) (*models.SecuritySettings, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, login_notifications, suspicious_activity_alerts, trusted_devices, backup_codes, updated_at
		FROM security_settings
		WHERE user_id = $1`, userID)

	var settings models.SecuritySettings
	err := row.Scan(
		&settings.UserID,
		&settings.LoginNotifications,
		&settings.SuspiciousActivityAlerts,
		pq.Array(&settings.TrustedDevices),
		pq.Array(&settings.BackupCodes),
		&settings.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get security settings", err)
	}

	return &settings, nil
}

// Upsert writes the user's security settings
func (s *Store) Upsert(ctx context.Context, settings *models.SecuritySettings) error {
	settings.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO security_settings (user_id, login_notifications, suspicious_activity_alerts, trusted_devices, backup_codes, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET login_notifications = EXCLUDED.login_notifications,
		    suspicious_activity_alerts = EXCLUDED.suspicious_activity_alerts,
		    trusted_devices = EXCLUDED.trusted_devices,
		    backup_codes = EXCLUDED.backup_codes,
		    updated_at = EXCLUDED.updated_at`,
		settings.UserID,
		settings.LoginNotifications,
		settings.SuspiciousActivityAlerts,
		pq.Array(settings.TrustedDevices),
		pq.Array(settings.BackupCodes),
		settings.UpdatedAt,
	)
	if err != nil {
		return errors.NewQueryExecutionFailedError("save security settings", err)
	}

	return nil
}
