package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spendinganalytics/spending_analytics_app/internal/apperrors"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/ports"
	portssvc "github.com/spendinganalytics/spending_analytics_app/internal/core/ports/services"
	"github.com/spendinganalytics/spending_analytics_app/internal/dto"
	"github.com/spendinganalytics/spending_analytics_app/internal/utils/spendmath"
)

// dashboardService implements the DashboardSvc interface.
type dashboardService struct {
	BaseService
	repo ports.TransactionRepository
	now  func() time.Time
}

// DashboardServiceOption is a functional option for configuring the dashboard service.
type DashboardServiceOption func(*dashboardService)

// WithDashboardClock replaces the wall clock.
func WithDashboardClock(now func() time.Time) DashboardServiceOption {
	return func(s *dashboardService) {
		s.now = now
	}
}

// NewDashboardService creates a new dashboard KPI service.
func NewDashboardService(repo ports.TransactionRepository, options ...DashboardServiceOption) portssvc.DashboardSvc {
	svc := &dashboardService{repo: repo, now: time.Now}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.DashboardSvc = (*dashboardService)(nil)

// GetDashboardSummary assembles the spend KPIs. The current/previous
// comparison is always current-month-to-date against the full previous
// month; the period only selects the chart series range and granularity.
func (s *dashboardService) GetDashboardSummary(ctx context.Context, period domain.Period) (*dto.DashboardSummaryResponse, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w: unknown period %q", apperrors.ErrValidation, string(period))
	}

	today := dateOf(s.now())
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevMonthStart := monthStart.AddDate(0, -1, 0)
	prevMonthEnd := monthStart.AddDate(0, 0, -1)

	currentTxns, err := s.repo.FindSpendingBetween(ctx, monthStart, today)
	if err != nil {
		s.LogError(ctx, err, "Failed to load current month spending")
		return nil, fmt.Errorf("failed to load current month spending: %w", err)
	}
	previousTxns, err := s.repo.FindSpendingBetween(ctx, prevMonthStart, prevMonthEnd)
	if err != nil {
		s.LogError(ctx, err, "Failed to load previous month spending")
		return nil, fmt.Errorf("failed to load previous month spending: %w", err)
	}

	// Projection history covers the twelve full months before this one.
	historyStart := monthStart.AddDate(0, -12, 0)
	historyTxns, err := s.repo.FindSpendingBetween(ctx, historyStart, prevMonthEnd)
	if err != nil {
		s.LogError(ctx, err, "Failed to load projection history")
		return nil, fmt.Errorf("failed to load projection history: %w", err)
	}

	chartStart, chartEnd := chartRange(period, today)
	chartTxns := currentTxns
	if !chartStart.Equal(monthStart) || !chartEnd.Equal(today) {
		chartTxns, err = s.repo.FindSpendingBetween(ctx, chartStart, chartEnd)
		if err != nil {
			s.LogError(ctx, err, "Failed to load chart series transactions")
			return nil, fmt.Errorf("failed to load chart series transactions: %w", err)
		}
	}

	currentSpending := spendmath.TotalSpent(currentTxns)
	previousSpending := spendmath.TotalSpent(previousTxns)
	projection := spendmath.ProjectedMonthEnd(today, currentTxns, historyTxns)

	summary := &dto.DashboardSummaryResponse{
		CurrentSpending:        currentSpending,
		PreviousSpending:       previousSpending,
		ChangePercent:          spendmath.ChangePercent(currentSpending, previousSpending),
		AveragePerActiveDay:    spendmath.AveragePerActiveDay(currentSpending, currentTxns),
		ProjectedMonthEnd:      projection.Projected,
		ProjectedChangePercent: projection.ComparedPercentage,
		DataPoints:             spendmath.DataPoints(chartTxns, chartStart, chartEnd, period.Monthly()),
	}
	s.LogDebug(ctx, "Dashboard summary computed",
		slog.String("period", string(period)), slog.Int("data_points", len(summary.DataPoints)))
	return summary, nil
}

// chartRange maps a period onto the date span of its chart series.
func chartRange(period domain.Period, today time.Time) (start, end time.Time) {
	switch period {
	case domain.PeriodMonth:
		return today.AddDate(0, 0, -29), today
	case domain.PeriodYTD:
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), today
	case domain.PeriodYear:
		firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return firstOfMonth.AddDate(0, -11, 0), today
	default:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), today
	}
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
