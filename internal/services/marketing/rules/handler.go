// internal/services/marketing/rules/handler.go
package rules

import (
	"encoding/json"
	"io"
	"net/http"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Handler exposes marketing rule management over HTTP
type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log.WithFields(map[string]interface{}{"handler": "marketing-rules"}),
	}
}

// Register mounts the rule routes on the given router group
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/rules", h.List)
	rg.GET("/rules/:id", h.Get)
	rg.POST("/rules", h.Create)
	rg.PUT("/rules/:id", h.Update)
	rg.DELETE("/rules/:id", h.Delete)
	rg.POST("/rules/:id/toggle", h.ToggleStatus)
}

func (h *Handler) List(c *gin.Context) {
	rulesList, err := h.service.List(c.Request.Context())
	if err != nil {
		errors.RespondError(c, err)
		return
	}
	if rulesList == nil {
		rulesList = []models.MarketingRule{}
	}
	c.JSON(http.StatusOK, gin.H{"rules": rulesList})
}

func (h *Handler) Get(c *gin.Context) {
	rule, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rule": rule})
}

func (h *Handler) Create(c *gin.Context) {
	rule, err := h.bindRule(c)
	if err != nil {
		errors.RespondError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), rule)
	if err != nil {
		errors.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"rule": created})
}

func (h *Handler) Update(c *gin.Context) {
	rule, err := h.bindRule(c)
	if err != nil {
		errors.RespondError(c, err)
		return
	}
	rule.ID = c.Param("id")

	updated, err := h.service.Update(c.Request.Context(), rule)
	if err != nil {
		errors.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rule": updated})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ToggleStatus(c *gin.Context) {
	toggled, err := h.service.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rule": toggled})
}

// bindRule decodes the request body and validates it against the rule
// schema before mapping it onto the model
func (h *Handler) bindRule(c *gin.Context) (*models.MarketingRule, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, errors.NewRuleValidationFailedError("unable to read request body")
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.NewRuleValidationFailedError("request body must be valid JSON")
	}

	if err := ValidatePayload(payload); err != nil {
		return nil, err
	}

	var rule models.MarketingRule
	if err := json.Unmarshal(body, &rule); err != nil {
		return nil, errors.NewRuleValidationFailedError("request body does not match rule shape")
	}

	return &rule, nil
}
