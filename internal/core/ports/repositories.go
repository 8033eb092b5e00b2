package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
)

// TransactionRepository defines the persistence operations for Transactions.
// The dedup_hash unique constraint is the true source of truth for
// deduplication; FindExistingDedupHashes is an optimisation, and SaveAll
// must tolerate a concurrent import winning the race by reporting only the
// hashes it actually inserted.
type TransactionRepository interface {
	// FindExistingDedupHashes returns the subset of candidate hashes already persisted.
	FindExistingDedupHashes(ctx context.Context, hashes []string) (map[string]struct{}, error)
	// SaveAll persists the batch and returns the set of dedup hashes actually
	// inserted; hashes lost to a concurrent insert are silently absent.
	SaveAll(ctx context.Context, txns []domain.Transaction) (map[string]struct{}, error)
	// FindAll returns every persisted transaction, most recent first.
	FindAll(ctx context.Context) ([]domain.Transaction, error)
	// FindByDateRange returns transactions dated within [start, end] inclusive.
	FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error)
	// FindSpendingBetween returns spend transactions (amount < 0) within [start, end].
	FindSpendingBetween(ctx context.Context, start, end time.Time) ([]domain.Transaction, error)
	// SumSpendingBetween totals absolute spend within [start, end].
	SumSpendingBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	// SetSubscriptionByMerchant flips the subscription flag on a merchant's
	// transactions within [start, end] and reports how many rows changed.
	SetSubscriptionByMerchant(ctx context.Context, merchant string, isSubscription bool, start, end time.Time) (int64, error)
	// DeleteAll removes every persisted transaction and reports how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
}
