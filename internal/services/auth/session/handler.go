// internal/services/auth/session/handler.go
package session

import (
	"net/http"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/common/logger"

	"github.com/gin-gonic/gin"
)

// Handler exposes session introspection and logout
type Handler struct {
	store      *Store
	cookieName string
	logger     logger.Logger
}

func NewHandler(store *Store, cookieName string, log logger.Logger) *Handler {
	return &Handler{
		store:      store,
		cookieName: cookieName,
		logger:     log.WithFields(map[string]interface{}{"handler": "session"}),
	}
}

// Register mounts the session routes on an authenticated group
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
	rg.POST("/logout", h.Logout)
}

func (h *Handler) Me(c *gin.Context) {
	sess := FromContext(c)
	if sess == nil {
		errors.RespondError(c, errors.NewAuthenticationRequiredError())
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": sess})
}

func (h *Handler) Logout(c *gin.Context) {
	sess := FromContext(c)
	if sess == nil {
		errors.RespondError(c, errors.NewAuthenticationRequiredError())
		return
	}

	if err := h.store.Invalidate(c.Request.Context(), sess.Token); err != nil {
		errors.RespondError(c, err)
		return
	}

	// Clear the cookie on the way out
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}
