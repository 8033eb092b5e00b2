package services

import (
	"context"

	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
	"github.com/spendinganalytics/spending_analytics_app/internal/dto"
)

// ImporterSvc runs the statement import pipeline for a batch of files.
type ImporterSvc interface {
	// ImportBatch parses, deduplicates and persists a batch of statement
	// files. It always returns a structured outcome unless the storage
	// layer fails, which fails the whole batch.
	ImportBatch(ctx context.Context, files []dto.FileUpload) (*dto.BatchImportResult, error)
}

// TransactionSvc exposes the transaction read paths.
type TransactionSvc interface {
	ListTransactions(ctx context.Context) ([]dto.TransactionResponse, error)
	GetTransactionsByDateRange(ctx context.Context, start, end string) ([]dto.TransactionResponse, error)
	GetRecentTransactions(ctx context.Context, days int) ([]dto.TransactionResponse, error)
}

// SubscriptionSvc detects and manages recurring-charge merchant groups.
type SubscriptionSvc interface {
	FindPotentialSubscriptions(ctx context.Context) ([]domain.MerchantAggregate, error)
	GetActiveSubscriptions(ctx context.Context) ([]domain.MerchantAggregate, error)
	ConfirmAsSubscription(ctx context.Context, merchant string) error
	UnmarkAsSubscription(ctx context.Context, merchant string) error
}

// DashboardSvc assembles the spend KPIs and chart series.
type DashboardSvc interface {
	GetDashboardSummary(ctx context.Context, period domain.Period) (*dto.DashboardSummaryResponse, error)
}

// InsightsSvc generates heuristic spending observations from recent history.
type InsightsSvc interface {
	// GetRecentInsights returns the insights generated within the last day,
	// generating a fresh set when none are recent enough.
	GetRecentInsights(ctx context.Context) ([]domain.Insight, error)
	// GenerateInsights recomputes the insight set from the transaction history.
	GenerateInsights(ctx context.Context) ([]domain.Insight, error)
}

// DataSvc exposes bulk data management operations.
type DataSvc interface {
	// DeleteAllData removes every imported transaction and reports the count.
	DeleteAllData(ctx context.Context) (*dto.DeleteAllDataResult, error)
}

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and is
// used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Importer     ImporterSvc
	Transaction  TransactionSvc
	Subscription SubscriptionSvc
	Dashboard    DashboardSvc
	Insights     InsightsSvc
	Data         DataSvc
}
