// internal/services/auth/twofactor/handler.go
package twofactor

import (
	"net/http"

	stderrors "errors"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/services/auth/session"

	"github.com/gin-gonic/gin"
)

// Handler exposes the two-factor flow over HTTP. Responses use the
// success envelope the mobile clients expect.
type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log.WithFields(map[string]interface{}{"handler": "twofactor"}),
	}
}

// Register mounts the two-factor routes on an authenticated group
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/2fa/send", h.SendCode)
	rg.POST("/2fa/verify", h.VerifyCode)
	rg.POST("/2fa/enable", h.Enable)
	rg.POST("/2fa/disable", h.Disable)
}

func (h *Handler) SendCode(c *gin.Context) {
	sess := session.FromContext(c)
	if sess == nil {
		errors.RespondError(c, errors.NewAuthenticationRequiredError())
		return
	}

	var payload struct {
		Phone string `json:"phoneNumber"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondFailure(c, errors.NewInvalidPhoneNumberError("phoneNumber is required"))
		return
	}

	if err := h.service.SendCode(c.Request.Context(), sess.UserID, payload.Phone); err != nil {
		respondFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Verification code sent",
	})
}

func (h *Handler) VerifyCode(c *gin.Context) {
	sess := session.FromContext(c)
	if sess == nil {
		errors.RespondError(c, errors.NewAuthenticationRequiredError())
		return
	}

	var payload struct {
		Phone string `json:"phoneNumber"`
		Code  string `json:"code"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondFailure(c, errors.NewInvalidCodeFormatError())
		return
	}

	if err := h.service.VerifyCode(c.Request.Context(), sess.UserID, payload.Phone, payload.Code); err != nil {
		respondFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Code verified",
	})
}

func (h *Handler) Enable(c *gin.Context) {
	sess := session.FromContext(c)
	if sess == nil {
		errors.RespondError(c, errors.NewAuthenticationRequiredError())
		return
	}

	var payload struct {
		Phone string `json:"phoneNumber"`
		Code  string `json:"code"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondFailure(c, errors.NewInvalidPhoneNumberError("phoneNumber and code are required"))
		return
	}

	if err := h.service.Enable(c.Request.Context(), sess.UserID, payload.Phone, payload.Code); err != nil {
		respondFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Two-factor authentication enabled",
	})
}

func (h *Handler) Disable(c *gin.Context) {
	sess := session.FromContext(c)
	if sess == nil {
		errors.RespondError(c, errors.NewAuthenticationRequiredError())
		return
	}

	if err := h.service.Disable(c.Request.Context(), sess.UserID); err != nil {
		respondFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Two-factor authentication disabled",
	})
}

// respondFailure writes the success envelope with the mapped HTTP status
func respondFailure(c *gin.Context, err error) {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		c.JSON(errors.HTTPStatus(stdErr.Code), gin.H{
			"success": false,
			"message": stdErr.Message,
			"code":    string(stdErr.Code),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": "An unexpected error occurred",
	})
}
