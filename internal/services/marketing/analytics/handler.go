// internal/services/marketing/analytics/handler.go
package analytics

import (
	"net/http"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Handler exposes marketing analytics over HTTP
type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log.WithFields(map[string]interface{}{"handler": "marketing-analytics"}),
	}
}

// Register mounts the analytics routes on the given router group
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/analytics/rules", h.RulesAnalytics)
	rg.GET("/analytics/rules/:id", h.RuleAnalytics)
	rg.GET("/analytics/stats", h.OverallStats)
	rg.GET("/analytics/summary", h.MarketingAnalytics)
}

func (h *Handler) RulesAnalytics(c *gin.Context) {
	result, err := h.service.GetRulesAnalytics(c.Request.Context())
	if err != nil {
		errors.RespondError(c, err)
		return
	}
	if result == nil {
		result = []models.RuleAnalytics{}
	}
	c.JSON(http.StatusOK, gin.H{"analytics": result})
}

func (h *Handler) RuleAnalytics(c *gin.Context) {
	result, err := h.service.GetRuleAnalytics(c.Request.Context(), c.Param("id"))
	if err != nil {
		errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analytics": result})
}

func (h *Handler) OverallStats(c *gin.Context) {
	stats, err := h.service.CachedStats(c.Request.Context())
	if err != nil {
		errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *Handler) MarketingAnalytics(c *gin.Context) {
	period := c.DefaultQuery("period", "30d")

	summary, err := h.service.GetMarketingAnalytics(c.Request.Context(), period)
	if err != nil {
		errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analytics": summary})
}
