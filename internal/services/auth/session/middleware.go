// internal/services/auth/session/middleware.go
package session

import (
	"strings"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/models"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "auth.session"

// Middleware resolves the caller's session before protected handlers run
type Middleware struct {
	store      *Store
	cookieName string
}

func NewMiddleware(store *Store, cookieName string) *Middleware {
	return &Middleware{store: store, cookieName: cookieName}
}

// Authenticate rejects requests without a valid session. The token is
// read from the session cookie or a bearer Authorization header.
func (m *Middleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			errors.RespondError(c, errors.NewAuthenticationRequiredError())
			c.Abort()
			return
		}

		sess, err := m.store.Get(c.Request.Context(), token)
		if err != nil {
			errors.RespondError(c, err)
			c.Abort()
			return
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// RequirePermission gates a route on the session's access level. Admins
// pass every check.
func (m *Middleware) RequirePermission(required models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := FromContext(c)
		if sess == nil {
			errors.RespondError(c, errors.NewAuthenticationRequiredError())
			c.Abort()
			return
		}

		user := models.User{Permission: sess.Permission}
		if !user.HasPermission(required) {
			errors.RespondError(c, errors.NewPermissionDeniedError(
				"requires "+string(required)+" access"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// FromContext returns the authenticated session, or nil on public routes
func FromContext(c *gin.Context) *models.Session {
	value, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, ok := value.(*models.Session)
	if !ok {
		return nil
	}
	return sess
}

func (m *Middleware) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return ""
}
