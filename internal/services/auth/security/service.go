// internal/services/auth/security/service.go
package security

import (
	"context"
	"time"

	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/models"
)

// Service serves security preferences, filling defaults for users who
// have never saved any
type Service struct {
	store  *Store
	logger logger.Logger
}

func NewService(store *Store, log logger.Logger) *Service {
	return &Service{
		store:  store,
		logger: log.WithFields(map[string]interface{}{"service": "security-settings"}),
	}
}

// Get returns the user's settings, or the defaults when none are saved
func (s *Service) Get(ctx context.Context, userID string) (*models.SecuritySettings, error) {
	settings, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return defaultSettings(userID), nil
	}
	if settings.TrustedDevices == nil {
		settings.TrustedDevices = []string{}
	}
	if settings.BackupCodes == nil {
		settings.BackupCodes = []string{}
	}
	return settings, nil
}

// SettingsUpdate carries the fields a client may change. Nil fields are
// left as they are.
type SettingsUpdate struct {
	LoginNotifications       *bool    `json:"loginNotifications,omitempty"`
	SuspiciousActivityAlerts *bool    `json:"suspiciousActivityAlerts,omitempty"`
	TrustedDevices           []string `json:"trustedDevices,omitempty"`
}

// Update applies a partial update on top of the current settings
func (s *Service) Update(ctx context.Context, userID string, update SettingsUpdate) (*models.SecuritySettings, error) {
	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.LoginNotifications != nil {
		settings.LoginNotifications = *update.LoginNotifications
	}
	if update.SuspiciousActivityAlerts != nil {
		settings.SuspiciousActivityAlerts = *update.SuspiciousActivityAlerts
	}
	if update.TrustedDevices != nil {
		settings.TrustedDevices = update.TrustedDevices
	}

	if err := s.store.Upsert(ctx, settings); err != nil {
		return nil, err
	}

	s.logger.Info("security settings updated", map[string]interface{}{"userId": userID})
	return settings, nil
}

func defaultSettings(userID string) *models.SecuritySettings {
	return &models.SecuritySettings{
		UserID:                   userID,
		LoginNotifications:       true,
		SuspiciousActivityAlerts: true,
		TrustedDevices:           []string{},
		BackupCodes:              []string{},
		UpdatedAt:                time.Now().UTC(),
	}
}
