package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spendinganalytics/spending_analytics_app/internal/core/ports"
	portssvc "github.com/spendinganalytics/spending_analytics_app/internal/core/ports/services"
	"github.com/spendinganalytics/spending_analytics_app/internal/dto"
)

// dataService implements the DataSvc interface.
type dataService struct {
	BaseService
	repo ports.TransactionRepository
}

// NewDataService creates a new bulk data management service.
func NewDataService(repo ports.TransactionRepository) portssvc.DataSvc {
	return &dataService{repo: repo}
}

var _ portssvc.DataSvc = (*dataService)(nil)

// DeleteAllData removes every imported transaction and reports how many
// were deleted.
func (s *dataService) DeleteAllData(ctx context.Context) (*dto.DeleteAllDataResult, error) {
	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to delete all transactions")
		return nil, fmt.Errorf("failed to delete all transactions: %w", err)
	}
	s.LogInfo(ctx, "All transaction data deleted", slog.Int64("count", deleted))
	return &dto.DeleteAllDataResult{TransactionsDeleted: deleted}, nil
}
