package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spendinganalytics/spending_analytics_app/internal/apperrors"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/ports"
	portssvc "github.com/spendinganalytics/spending_analytics_app/internal/core/ports/services"
	"github.com/spendinganalytics/spending_analytics_app/internal/dto"
)

// transactionService implements the TransactionSvc interface.
type transactionService struct {
	BaseService
	repo ports.TransactionRepository
	now  func() time.Time
}

// TransactionServiceOption is a functional option for configuring the transaction service.
type TransactionServiceOption func(*transactionService)

// WithTransactionClock replaces the wall clock.
func WithTransactionClock(now func() time.Time) TransactionServiceOption {
	return func(s *transactionService) {
		s.now = now
	}
}

// NewTransactionService creates a new transaction read service.
func NewTransactionService(repo ports.TransactionRepository, options ...TransactionServiceOption) portssvc.TransactionSvc {
	svc := &transactionService{repo: repo, now: time.Now}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvc = (*transactionService)(nil)

// ListTransactions returns every persisted transaction, most recent first.
func (s *transactionService) ListTransactions(ctx context.Context) ([]dto.TransactionResponse, error) {
	txns, err := s.repo.FindAll(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return dto.ToTransactionResponses(txns), nil
}

// GetTransactionsByDateRange returns transactions within [start, end], both
// given as ISO dates.
func (s *transactionService) GetTransactionsByDateRange(ctx context.Context, start, end string) ([]dto.TransactionResponse, error) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %q", apperrors.ErrValidation, start)
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date %q", apperrors.ErrValidation, end)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date before start date", apperrors.ErrValidation)
	}

	txns, err := s.repo.FindByDateRange(ctx, startDate, endDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to query transactions by date range",
			slog.String("start", start), slog.String("end", end))
		return nil, fmt.Errorf("failed to query transactions by date range: %w", err)
	}
	return dto.ToTransactionResponses(txns), nil
}

// GetRecentTransactions returns transactions from the trailing n days.
func (s *transactionService) GetRecentTransactions(ctx context.Context, days int) ([]dto.TransactionResponse, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", apperrors.ErrValidation)
	}
	today := s.now()
	txns, err := s.repo.FindByDateRange(ctx, today.AddDate(0, 0, -days), today)
	if err != nil {
		s.LogError(ctx, err, "Failed to query recent transactions", slog.Int("days", days))
		return nil, fmt.Errorf("failed to query recent transactions: %w", err)
	}
	return dto.ToTransactionResponses(txns), nil
}
