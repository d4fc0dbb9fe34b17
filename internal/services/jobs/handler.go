// internal/services/jobs/handler.go
package jobs

import (
	"net/http"
	"strconv"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Handler exposes job listings and job search over HTTP
type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log.WithFields(map[string]interface{}{"handler": "jobs"}),
	}
}

// Register mounts the job routes on the given router group
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.List)
	rg.GET("/jobs/search", h.Search)
	rg.GET("/jobs/:id", h.Get)
	rg.POST("/jobs/:id/click", h.TrackClick)
}

func (h *Handler) List(c *gin.Context) {
	limit := intQuery(c, "limit", defaultListLimit)
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset := intQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	listings, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		errors.RespondError(c, err)
		return
	}
	if listings == nil {
		listings = []models.JobListing{}
	}
	c.JSON(http.StatusOK, gin.H{"jobs": listings})
}

func (h *Handler) Get(c *gin.Context) {
	job, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *Handler) Search(c *gin.Context) {
	query := models.JobSearchQuery{
		Keywords: c.Query("q"),
		Location: c.Query("location"),
		JobType:  c.Query("jobType"),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "pageSize", 0),
	}

	result, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": result.Jobs, "total": result.Total})
}

// TrackClick records a CTA click. The rule is identified by the body so
// the client reports which campaign the applicant followed.
func (h *Handler) TrackClick(c *gin.Context) {
	var payload struct {
		RuleID string `json:"ruleId"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.RuleID == "" {
		errors.RespondError(c, errors.NewValidationFailedError("ruleId is required"))
		return
	}

	if err := h.service.TrackClick(c.Request.Context(), payload.RuleID); err != nil {
		errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
