package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/ports"
	portssvc "github.com/spendinganalytics/spending_analytics_app/internal/core/ports/services"
)

const (
	// Insight heuristics look at the trailing three months of spend.
	insightWindowMonths = 3
	// A merchant charged this often in the window is worth surfacing.
	recurringMinCharges = 3
	// Weekend spend above this multiple of weekday spend triggers an insight.
	weekendSpikeFactor = "1.5"
	// Generated insights are served from cache for this long.
	insightCacheTTL = 24 * time.Hour

	insightSeverityMedium = "medium"
)

// insightsService implements the InsightsSvc interface. Generated insights
// are kept in memory and reused for a day, so repeated dashboard loads do
// not recompute them.
type insightsService struct {
	BaseService
	repo ports.TransactionRepository
	now  func() time.Time

	mu          sync.Mutex
	cached      []domain.Insight
	generatedAt time.Time
}

// InsightsServiceOption is a functional option for configuring the insights service.
type InsightsServiceOption func(*insightsService)

// WithInsightsClock replaces the wall clock.
func WithInsightsClock(now func() time.Time) InsightsServiceOption {
	return func(s *insightsService) {
		s.now = now
	}
}

// NewInsightsService creates a new insights generation service.
func NewInsightsService(repo ports.TransactionRepository, options ...InsightsServiceOption) portssvc.InsightsSvc {
	svc := &insightsService{repo: repo, now: time.Now}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.InsightsSvc = (*insightsService)(nil)

// GetRecentInsights serves the cached insight set when it is less than a day
// old and regenerates otherwise.
func (s *insightsService) GetRecentInsights(ctx context.Context) ([]domain.Insight, error) {
	s.mu.Lock()
	if s.cached != nil && s.now().Sub(s.generatedAt) < insightCacheTTL {
		cached := make([]domain.Insight, len(s.cached))
		copy(cached, s.cached)
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	return s.GenerateInsights(ctx)
}

// GenerateInsights recomputes the insight set from the trailing three months
// of spend transactions: merchants charged three or more times, and weekend
// spend running well above weekday spend.
func (s *insightsService) GenerateInsights(ctx context.Context) ([]domain.Insight, error) {
	now := s.now()
	txns, err := s.repo.FindSpendingBetween(ctx, now.AddDate(0, -insightWindowMonths, 0), now)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for insights")
		return nil, fmt.Errorf("failed to load transactions for insights: %w", err)
	}

	insights := append(s.recurringChargeInsights(txns, now), s.weekendSpendingInsights(txns, now)...)

	s.mu.Lock()
	s.cached = insights
	s.generatedAt = now
	s.mu.Unlock()

	s.LogInfo(ctx, "Insights generated", slog.Int("count", len(insights)))
	return insights, nil
}

// recurringChargeInsights surfaces merchants charged at least three times in
// the window, most frequent first with merchant name as tie-break.
func (s *insightsService) recurringChargeInsights(txns []domain.Transaction, now time.Time) []domain.Insight {
	counts := map[string]int{}
	for _, t := range txns {
		counts[t.Merchant]++
	}

	type merchantCount struct {
		merchant string
		count    int
	}
	var recurring []merchantCount
	for merchant, count := range counts {
		if count >= recurringMinCharges {
			recurring = append(recurring, merchantCount{merchant, count})
		}
	}
	sort.Slice(recurring, func(i, j int) bool {
		if recurring[i].count != recurring[j].count {
			return recurring[i].count > recurring[j].count
		}
		return recurring[i].merchant < recurring[j].merchant
	})

	insights := make([]domain.Insight, 0, len(recurring))
	for _, mc := range recurring {
		insights = append(insights, domain.Insight{
			Type:        domain.InsightRecurringCharge,
			Title:       "Potential Subscription: " + mc.merchant,
			Description: fmt.Sprintf("Charged %d times in the last 3 months", mc.count),
			Severity:    insightSeverityMedium,
			GeneratedAt: now,
		})
	}
	return insights
}

// weekendSpendingInsights compares total weekend spend against weekday spend
// and flags a spike above the configured factor. With no weekday spend the
// comparison is meaningless and no insight is produced.
func (s *insightsService) weekendSpendingInsights(txns []domain.Transaction, now time.Time) []domain.Insight {
	weekend, weekday := decimal.Zero, decimal.Zero
	for _, t := range txns {
		switch t.Date.Weekday() {
		case time.Saturday, time.Sunday:
			weekend = weekend.Add(t.Amount.Abs())
		default:
			weekday = weekday.Add(t.Amount.Abs())
		}
	}

	if weekday.IsZero() {
		return nil
	}
	if !weekend.GreaterThan(weekday.Mul(decimal.RequireFromString(weekendSpikeFactor))) {
		return nil
	}

	percentMore := weekend.Sub(weekday).DivRound(weekday, 4).Mul(decimal.NewFromInt(100)).Round(0)
	return []domain.Insight{{
		Type:        domain.InsightWeekendSpending,
		Title:       "High Weekend Spending",
		Description: fmt.Sprintf("You spend %s%% more on weekends", percentMore.String()),
		Severity:    insightSeverityMedium,
		GeneratedAt: now,
	}}
}
