package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spendinganalytics/spending_analytics_app/internal/apperrors"
	portssvc "github.com/spendinganalytics/spending_analytics_app/internal/core/ports/services"
	"github.com/spendinganalytics/spending_analytics_app/internal/dto"
	"github.com/spendinganalytics/spending_analytics_app/internal/middleware"
)

// subscriptionHandler handles the subscription detection endpoints.
type subscriptionHandler struct {
	subscriptionService portssvc.SubscriptionSvc
}

func newSubscriptionHandler(ss portssvc.SubscriptionSvc) *subscriptionHandler {
	return &subscriptionHandler{
		subscriptionService: ss,
	}
}

// registerSubscriptionRoutes registers routes related to subscriptions.
func registerSubscriptionRoutes(rg *gin.RouterGroup, subscriptionService portssvc.SubscriptionSvc) {
	h := newSubscriptionHandler(subscriptionService)

	subscriptions := rg.Group("/subscriptions")
	{
		subscriptions.GET("/potential", h.getPotentialSubscriptions)
		subscriptions.GET("/active", h.getActiveSubscriptions)
		subscriptions.POST("/confirm", h.confirmSubscription)
		subscriptions.POST("/unmark", h.unmarkSubscription)
	}
}

func (h *subscriptionHandler) getPotentialSubscriptions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	aggs, err := h.subscriptionService.FindPotentialSubscriptions(c.Request.Context())
	if err != nil {
		logger.Error("Failed to detect potential subscriptions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detect potential subscriptions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionResponses(aggs))
}

func (h *subscriptionHandler) getActiveSubscriptions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	aggs, err := h.subscriptionService.GetActiveSubscriptions(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list active subscriptions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list active subscriptions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionResponses(aggs))
}

func (h *subscriptionHandler) confirmSubscription(c *gin.Context) {
	h.setSubscriptionFlag(c, true)
}

func (h *subscriptionHandler) unmarkSubscription(c *gin.Context) {
	h.setSubscriptionFlag(c, false)
}

func (h *subscriptionHandler) setSubscriptionFlag(c *gin.Context, flag bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.MarkSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind subscription request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	var err error
	if flag {
		err = h.subscriptionService.ConfirmAsSubscription(c.Request.Context(), req.Merchant)
	} else {
		err = h.subscriptionService.UnmarkAsSubscription(c.Request.Context(), req.Merchant)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to update subscription flag", slog.String("merchant", req.Merchant), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subscription flag"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"merchant": req.Merchant, "isSubscription": flag})
}
