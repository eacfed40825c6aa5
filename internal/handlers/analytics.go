package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/platform/apierr"
	"github.com/coursora/coursora-backend/internal/platform/logger"
	"github.com/coursora/coursora-backend/internal/requestdata"
	"github.com/coursora/coursora-backend/internal/services"
)

type AnalyticsHandler struct {
	log              *logger.Logger
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(log *logger.Logger, analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:              log.With("handler", "AnalyticsHandler"),
		analyticsService: analyticsService,
	}
}

func operatorFrom(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.OperatorID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return rd.OperatorID, true
}

func (h *AnalyticsHandler) Lifetime(c *gin.Context) {
	operatorID, ok := operatorFrom(c)
	if !ok {
		return
	}
	metric, err := domain.ParseMetric(c.Query("metric"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unknown_metric", err)
		return
	}
	total, err := h.analyticsService.LifetimeTotal(c.Request.Context(), operatorID, metric)
	if err != nil {
		h.log.Error("Lifetime failed", "operator_id", operatorID, "metric", metric, "error", err)
		RespondError(c, apierr.StatusOf(err), apierr.CodeOf(err, "lifetime_failed"), err)
		return
	}
	RespondOK(c, gin.H{"total": total})
}

func (h *AnalyticsHandler) Trend(c *gin.Context) {
	operatorID, ok := operatorFrom(c)
	if !ok {
		return
	}
	metric, err := domain.ParseMetric(c.Query("metric"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unknown_metric", err)
		return
	}
	rng, err := services.ParseTrendRange(c.Query("range"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unknown_range", err)
		return
	}
	stats, err := h.analyticsService.RangeWithTrend(c.Request.Context(), operatorID, metric, rng)
	if err != nil {
		h.log.Error("Trend failed", "operator_id", operatorID, "metric", metric, "range", rng, "error", err)
		RespondError(c, apierr.StatusOf(err), apierr.CodeOf(err, "trend_failed"), err)
		return
	}
	RespondOK(c, gin.H{"total": stats.Total, "trend": stats.Trend})
}

func (h *AnalyticsHandler) Monthly(c *gin.Context) {
	operatorID, ok := operatorFrom(c)
	if !ok {
		return
	}
	metric, err := domain.ParseMetric(c.Query("metric"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unknown_metric", err)
		return
	}
	year := time.Now().UTC().Year()
	if rawYear := c.Query("year"); rawYear != "" {
		year, err = strconv.Atoi(rawYear)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_year", err)
			return
		}
	}
	series, err := h.analyticsService.MonthlySeries(c.Request.Context(), operatorID, metric, year)
	if err != nil {
		h.log.Error("Monthly failed", "operator_id", operatorID, "metric", metric, "year", year, "error", err)
		RespondError(c, apierr.StatusOf(err), apierr.CodeOf(err, "monthly_failed"), err)
		return
	}
	RespondOK(c, gin.H{"series": series})
}

func (h *AnalyticsHandler) Overview(c *gin.Context) {
	operatorID, ok := operatorFrom(c)
	if !ok {
		return
	}
	rng, err := services.ParseTrendRange(c.Query("range"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unknown_range", err)
		return
	}
	stats, err := h.analyticsService.Overview(c.Request.Context(), operatorID, rng)
	if err != nil {
		h.log.Error("Overview failed", "operator_id", operatorID, "range", rng, "error", err)
		RespondError(c, apierr.StatusOf(err), apierr.CodeOf(err, "overview_failed"), err)
		return
	}
	RespondOK(c, gin.H{"metrics": stats})
}
