// internal/models/session.go
package models

import "time"

// Session represents a user session
type Session struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	Token        string     `json:"token"`
	Permission   Permission `json:"permission"`
	DeviceInfo   string     `json:"deviceInfo,omitempty"`
	IPAddress    string     `json:"ipAddress,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	LastActivity time.Time  `json:"lastActivity"`
}

// IsExpired checks if session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// UpdateActivity updates the last activity timestamp
func (s *Session) UpdateActivity() {
	s.LastActivity = time.Now()
}
