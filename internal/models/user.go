// internal/models/user.go
package models

import "time"

// Permission represents an access level within the platform
type Permission string

const (
	PermissionSeeker   Permission = "seeker"
	PermissionEmployer Permission = "employer"
	PermissionAdmin    Permission = "admin"
)

// User represents a platform account
type User struct {
	ID               string     `json:"id" db:"id"`
	Email            string     `json:"email" db:"email"`
	Name             string     `json:"name" db:"name"`
	Permission       Permission `json:"permission" db:"permission"`
	TwoFactorEnabled bool       `json:"twoFactorEnabled" db:"two_factor_enabled"`
	TwoFactorMethod  string     `json:"twoFactorMethod,omitempty" db:"two_factor_method"`
	TwoFactorPhone   string     `json:"twoFactorPhone,omitempty" db:"two_factor_phone"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
}

// HasPermission reports whether the user holds at least the given access level
func (u *User) HasPermission(p Permission) bool {
	if u.Permission == PermissionAdmin {
		return true
	}
	return u.Permission == p
}

// SecuritySettings holds per-user security preferences
type SecuritySettings struct {
	UserID                   string    `json:"userId" db:"user_id"`
	LoginNotifications       bool      `json:"loginNotifications" db:"login_notifications"`
	SuspiciousActivityAlerts bool      `json:"suspiciousActivityAlerts" db:"suspicious_activity_alerts"`
	TrustedDevices           []string  `json:"trustedDevices" db:"trusted_devices"`
	BackupCodes              []string  `json:"backupCodes" db:"backup_codes"`
	UpdatedAt                time.Time `json:"updatedAt" db:"updated_at"`
}

// VerificationLog records a two-factor code delivery or check attempt
type VerificationLog struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Phone     string    `json:"phone" db:"phone"`
	Action    string    `json:"action" db:"action"` // sent, verified, failed
	Channel   string    `json:"channel" db:"channel"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
