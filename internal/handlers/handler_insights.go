package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/spendinganalytics/spending_analytics_app/internal/core/ports/services"
	"github.com/spendinganalytics/spending_analytics_app/internal/dto"
	"github.com/spendinganalytics/spending_analytics_app/internal/middleware"
)

// insightsHandler serves generated spending insights.
type insightsHandler struct {
	insightsService portssvc.InsightsSvc
}

func newInsightsHandler(is portssvc.InsightsSvc) *insightsHandler {
	return &insightsHandler{
		insightsService: is,
	}
}

// registerInsightRoutes registers the insight read and regenerate routes.
func registerInsightRoutes(rg *gin.RouterGroup, insightsService portssvc.InsightsSvc) {
	h := newInsightsHandler(insightsService)

	rg.GET("/insights", h.getInsights)
	rg.POST("/insights/generate", h.generateInsights)
}

// getInsights returns the recent insight set, generating one if stale.
func (h *insightsHandler) getInsights(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	insights, err := h.insightsService.GetRecentInsights(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get insights", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get insights"})
		return
	}
	c.JSON(http.StatusOK, dto.ToInsightResponses(insights))
}

// generateInsights forces a fresh insight computation.
func (h *insightsHandler) generateInsights(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	insights, err := h.insightsService.GenerateInsights(c.Request.Context())
	if err != nil {
		logger.Error("Failed to generate insights", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate insights"})
		return
	}
	c.JSON(http.StatusOK, dto.ToInsightResponses(insights))
}
