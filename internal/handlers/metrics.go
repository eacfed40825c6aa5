package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/platform/apierr"
	"github.com/coursora/coursora-backend/internal/platform/logger"
	"github.com/coursora/coursora-backend/internal/services"
)

type MetricsHandler struct {
	log            *logger.Logger
	metricsService services.MetricsService
}

func NewMetricsHandler(log *logger.Logger, metricsService services.MetricsService) *MetricsHandler {
	return &MetricsHandler{
		log:            log.With("handler", "MetricsHandler"),
		metricsService: metricsService,
	}
}

// Increment records one usage event for a course. The response carries the
// fresh counter; bucket bookkeeping and live notification are detached and
// cannot fail this call.
func (h *MetricsHandler) Increment(c *gin.Context) {
	institutionID, err := uuid.Parse(c.Param("institutionID"))
	if err != nil {
		RespondError(c, 400, "invalid_institution_id", err)
		return
	}
	courseID, err := uuid.Parse(c.Param("courseID"))
	if err != nil {
		RespondError(c, 400, "invalid_course_id", err)
		return
	}

	raw := c.Query("metric")
	if raw == "" {
		var body struct {
			Metric string `json:"metric"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			raw = body.Metric
		}
	}
	metric, err := domain.ParseMetric(raw)
	if err != nil {
		RespondError(c, 400, "unknown_metric", err)
		return
	}

	newCount, err := h.metricsService.Increment(c.Request.Context(), courseID, institutionID, metric)
	if err != nil {
		status := apierr.StatusOf(err)
		if status >= 500 {
			h.log.Error("Increment failed", "course_id", courseID, "institution_id", institutionID, "metric", metric, "error", err)
		}
		RespondError(c, status, apierr.CodeOf(err, "increment_failed"), err)
		return
	}
	RespondOK(c, gin.H{
		"course_id": courseID,
		"metric":    metric,
		"new_count": newCount,
	})
}
