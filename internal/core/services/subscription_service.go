package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendinganalytics/spending_analytics_app/internal/apperrors"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/ports"
	portssvc "github.com/spendinganalytics/spending_analytics_app/internal/core/ports/services"
)

const (
	// Detection looks at the trailing six months of charges.
	detectionWindowMonths = 6
	// Confirm/unmark flips the flag across the trailing twelve months.
	flagWindowMonths = 12
	// A merchant needs at least this many charges to be a candidate.
	minGroupSize = 3
	// Candidates with amount stddev above this share of the mean are rejected.
	maxVariancePercent = 20.0
	// A group is active if its latest charge is within this many days.
	activeWindowDays = 60
)

// subscriptionService implements the SubscriptionSvc interface.
type subscriptionService struct {
	BaseService
	repo ports.TransactionRepository
	now  func() time.Time
}

// SubscriptionServiceOption is a functional option for configuring the subscription service.
type SubscriptionServiceOption func(*subscriptionService)

// WithSubscriptionClock replaces the wall clock.
func WithSubscriptionClock(now func() time.Time) SubscriptionServiceOption {
	return func(s *subscriptionService) {
		s.now = now
	}
}

// NewSubscriptionService creates a new subscription detection service.
func NewSubscriptionService(repo ports.TransactionRepository, options ...SubscriptionServiceOption) portssvc.SubscriptionSvc {
	svc := &subscriptionService{repo: repo, now: time.Now}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SubscriptionSvc = (*subscriptionService)(nil)

// FindPotentialSubscriptions scans the trailing six months for merchants
// charged three or more times at low amount variance and classifies their
// charge interval. Results are sorted by transaction count, descending.
func (s *subscriptionService) FindPotentialSubscriptions(ctx context.Context) ([]domain.MerchantAggregate, error) {
	now := s.now()
	txns, err := s.repo.FindByDateRange(ctx, now.AddDate(0, -detectionWindowMonths, 0), now)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for subscription detection")
		return nil, fmt.Errorf("failed to load transactions for subscription detection: %w", err)
	}

	byMerchant := map[string][]domain.Transaction{}
	for _, t := range txns {
		if t.Amount.IsZero() {
			continue
		}
		byMerchant[t.Merchant] = append(byMerchant[t.Merchant], t)
	}

	var candidates []domain.MerchantAggregate
	for merchant, group := range byMerchant {
		if len(group) < minGroupSize {
			continue
		}

		avgAmount := averageAbsAmount(group)
		variancePercent := variancePercentOf(group, avgAmount)
		if variancePercent > maxVariancePercent {
			continue
		}

		first, last := dateBounds(group)
		candidates = append(candidates, domain.MerchantAggregate{
			Merchant:         merchant,
			TransactionCount: len(group),
			AvgAmount:        avgAmount,
			VariancePercent:  variancePercent,
			Frequency:        detectFrequency(group),
			FirstDate:        first,
			LastDate:         last,
			IsActive:         last.After(now.AddDate(0, 0, -activeWindowDays)),
		})
	}

	sortAggregates(candidates)
	s.LogInfo(ctx, "Potential subscriptions detected", slog.Int("count", len(candidates)))
	return candidates, nil
}

// GetActiveSubscriptions groups the trailing six months of user-confirmed
// subscription transactions by merchant, without the variance filter.
func (s *subscriptionService) GetActiveSubscriptions(ctx context.Context) ([]domain.MerchantAggregate, error) {
	now := s.now()
	txns, err := s.repo.FindByDateRange(ctx, now.AddDate(0, -detectionWindowMonths, 0), now)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for active subscriptions")
		return nil, fmt.Errorf("failed to load transactions for active subscriptions: %w", err)
	}

	byMerchant := map[string][]domain.Transaction{}
	for _, t := range txns {
		if !t.IsSubscription {
			continue
		}
		byMerchant[t.Merchant] = append(byMerchant[t.Merchant], t)
	}

	var subs []domain.MerchantAggregate
	for merchant, group := range byMerchant {
		first, last := dateBounds(group)
		subs = append(subs, domain.MerchantAggregate{
			Merchant:         merchant,
			TransactionCount: len(group),
			AvgAmount:        averageAbsAmount(group),
			Frequency:        detectFrequency(group),
			FirstDate:        first,
			LastDate:         last,
			IsActive:         last.After(now.AddDate(0, 0, -activeWindowDays)),
		})
	}

	sortAggregates(subs)
	return subs, nil
}

// ConfirmAsSubscription flags all of a merchant's transactions in the
// trailing twelve months as subscription charges.
func (s *subscriptionService) ConfirmAsSubscription(ctx context.Context, merchant string) error {
	return s.setSubscriptionFlag(ctx, merchant, true)
}

// UnmarkAsSubscription clears the subscription flag on all of a merchant's
// transactions in the trailing twelve months.
func (s *subscriptionService) UnmarkAsSubscription(ctx context.Context, merchant string) error {
	return s.setSubscriptionFlag(ctx, merchant, false)
}

func (s *subscriptionService) setSubscriptionFlag(ctx context.Context, merchant string, flag bool) error {
	if merchant == "" {
		return fmt.Errorf("%w: merchant must not be empty", apperrors.ErrValidation)
	}
	now := s.now()
	updated, err := s.repo.SetSubscriptionByMerchant(ctx, merchant, flag, now.AddDate(0, -flagWindowMonths, 0), now)
	if err != nil {
		s.LogError(ctx, err, "Failed to update subscription flag", slog.String("merchant", merchant), slog.Bool("flag", flag))
		return fmt.Errorf("failed to update subscription flag: %w", err)
	}
	s.LogInfo(ctx, "Subscription flag updated",
		slog.String("merchant", merchant), slog.Bool("flag", flag), slog.Int64("rows", updated))
	return nil
}

func averageAbsAmount(group []domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range group {
		total = total.Add(t.Amount.Abs())
	}
	return total.DivRound(decimal.NewFromInt(int64(len(group))), 2)
}

// variancePercentOf expresses the population standard deviation of the
// group's absolute amounts as a percentage of the mean.
func variancePercentOf(group []domain.Transaction, avg decimal.Decimal) float64 {
	mean, _ := avg.Float64()
	if mean == 0 {
		return 0
	}
	sumSquaredDiff := 0.0
	for _, t := range group {
		v, _ := t.Amount.Abs().Float64()
		diff := v - mean
		sumSquaredDiff += diff * diff
	}
	stddev := math.Sqrt(sumSquaredDiff / float64(len(group)))
	return stddev / mean * 100
}

// detectFrequency classifies the mean gap in days between consecutive
// charges. The monthly band is the single inclusive [25,35] range.
func detectFrequency(group []domain.Transaction) domain.Frequency {
	if len(group) < 2 {
		return domain.FrequencyIrregular
	}
	sorted := make([]domain.Transaction, len(group))
	copy(sorted, group)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	totalDays := 0.0
	for i := 1; i < len(sorted); i++ {
		totalDays += sorted[i].Date.Sub(sorted[i-1].Date).Hours() / 24
	}
	avgInterval := totalDays / float64(len(sorted)-1)

	switch {
	case avgInterval >= 25 && avgInterval <= 35:
		return domain.FrequencyMonthly
	case avgInterval >= 6 && avgInterval <= 9:
		return domain.FrequencyWeekly
	case avgInterval >= 85 && avgInterval <= 95:
		return domain.FrequencyQuarterly
	default:
		return domain.FrequencyIrregular
	}
}

func dateBounds(group []domain.Transaction) (first, last time.Time) {
	for i, t := range group {
		if i == 0 || t.Date.Before(first) {
			first = t.Date
		}
		if i == 0 || t.Date.After(last) {
			last = t.Date
		}
	}
	return first, last
}

// sortAggregates orders by transaction count descending, with merchant name
// as a deterministic tie-break.
func sortAggregates(aggs []domain.MerchantAggregate) {
	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].TransactionCount != aggs[j].TransactionCount {
			return aggs[i].TransactionCount > aggs[j].TransactionCount
		}
		return aggs[i].Merchant < aggs[j].Merchant
	})
}
