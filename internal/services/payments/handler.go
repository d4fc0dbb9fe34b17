// internal/services/payments/handler.go
package payments

import (
	"net/http"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/models"
	"workwise-backend/internal/services/auth/session"

	"github.com/gin-gonic/gin"
)

// Handler exposes payment creation over HTTP. Success responses carry
// the provider intent; failures use the standard error envelope.
type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log.WithFields(map[string]interface{}{"handler": "payments"}),
	}
}

// Register mounts the payment routes on an authenticated group
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/payments/intents", h.CreateIntent)
	rg.POST("/payments/intents/:id/sync", h.SyncStatus)
	rg.GET("/payments", h.History)
}

func (h *Handler) SyncStatus(c *gin.Context) {
	sess := session.FromContext(c)
	if sess == nil {
		errors.RespondError(c, errors.NewAuthenticationRequiredError())
		return
	}

	payment, err := h.service.SyncStatus(c.Request.Context(), sess.UserID, c.Param("id"))
	if err != nil {
		errors.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

func (h *Handler) CreateIntent(c *gin.Context) {
	sess := session.FromContext(c)
	if sess == nil {
		errors.RespondError(c, errors.NewAuthenticationRequiredError())
		return
	}

	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.RespondError(c, errors.NewValidationFailedError("request body must be valid JSON"))
		return
	}

	intent, err := h.service.CreateIntent(c.Request.Context(), sess.UserID, req)
	if err != nil {
		errors.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paymentIntent": intent})
}

func (h *Handler) History(c *gin.Context) {
	sess := session.FromContext(c)
	if sess == nil {
		errors.RespondError(c, errors.NewAuthenticationRequiredError())
		return
	}

	history, err := h.service.History(c.Request.Context(), sess.UserID)
	if err != nil {
		errors.RespondError(c, err)
		return
	}
	if history == nil {
		history = []models.Payment{}
	}

	c.JSON(http.StatusOK, gin.H{"payments": history})
}
