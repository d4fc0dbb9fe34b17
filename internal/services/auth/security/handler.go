// internal/services/auth/security/handler.go
package security

import (
	"net/http"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/services/auth/session"

	"github.com/gin-gonic/gin"
)

// Handler exposes security preferences over HTTP
type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log.WithFields(map[string]interface{}{"handler": "security-settings"}),
	}
}

// Register mounts the settings routes on an authenticated group
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/security-settings", h.Get)
	rg.PUT("/security-settings", h.Update)
}

func (h *Handler) Get(c *gin.Context) {
	sess := session.FromContext(c)
	if sess == nil {
		errors.RespondError(c, errors.NewAuthenticationRequiredError())
		return
	}

	settings, err := h.service.Get(c.Request.Context(), sess.UserID)
	if err != nil {
		errors.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"settings": settings,
	})
}

func (h *Handler) Update(c *gin.Context) {
	sess := session.FromContext(c)
	if sess == nil {
		errors.RespondError(c, errors.NewAuthenticationRequiredError())
		return
	}

	var update SettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		errors.RespondError(c, errors.NewValidationFailedError("request body must be valid JSON"))
		return
	}

	settings, err := h.service.Update(c.Request.Context(), sess.UserID, update)
	if err != nil {
		errors.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Security settings updated",
		"settings": settings,
	})
}
