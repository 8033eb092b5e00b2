package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spendinganalytics/spending_analytics_app/internal/apperrors"
	portssvc "github.com/spendinganalytics/spending_analytics_app/internal/core/ports/services"
	"github.com/spendinganalytics/spending_analytics_app/internal/middleware"
)

// transactionHandler handles the transaction read endpoints.
type transactionHandler struct {
	transactionService portssvc.TransactionSvc
}

func newTransactionHandler(ts portssvc.TransactionSvc) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
	}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvc) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.GET("/recent", h.getRecentTransactions)
	}
}

// listTransactions returns all transactions, or only those within the
// inclusive [start, end] date range when both query parameters are present.
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	start := c.Query("start")
	end := c.Query("end")

	if (start == "") != (end == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both 'start' and 'end' must be provided together"})
		return
	}

	if start != "" {
		txns, err := h.transactionService.GetTransactionsByDateRange(c.Request.Context(), start, end)
		if err != nil {
			if errors.Is(err, apperrors.ErrValidation) {
				logger.Warn("Invalid transaction date range", slog.String("start", start), slog.String("end", end))
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			logger.Error("Failed to list transactions by date range", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
			return
		}
		c.JSON(http.StatusOK, txns)
		return
	}

	txns, err := h.transactionService.ListTransactions(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		return
	}
	c.JSON(http.StatusOK, txns)
}

// getRecentTransactions returns transactions from the trailing N days
// (default 30).
func (h *transactionHandler) getRecentTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'days' parameter"})
		return
	}

	txns, err := h.transactionService.GetRecentTransactions(c.Request.Context(), days)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list recent transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list recent transactions"})
		return
	}
	c.JSON(http.StatusOK, txns)
}
