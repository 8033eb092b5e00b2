package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	portssvc "github.com/spendinganalytics/spending_analytics_app/internal/core/ports/services"
	"github.com/spendinganalytics/spending_analytics_app/internal/middleware"
	"github.com/spendinganalytics/spending_analytics_app/pkg/config"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	registerImportRoutes(v1, cfg, service.Importer, service.Data)
	registerDashboardRoutes(v1, service.Dashboard)
	registerTransactionRoutes(v1, service.Transaction)
	registerSubscriptionRoutes(v1, service.Subscription)
	registerInsightRoutes(v1, service.Insights)
}

// importRateLimiter builds the limiter applied to the upload route. A bad
// rate config falls back to no limiting rather than failing startup.
func importRateLimiter(cfg *config.Config) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(cfg.ImportRateLimit)
	if err != nil {
		slog.Warn("Invalid import rate limit, disabling limiter", slog.String("rate", cfg.ImportRateLimit), slog.String("error", err.Error()))
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(limiter.New(memory.NewStore(), rate))
}
