package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/ports"
)

const transactionColumns = `transaction_id, transaction_date, merchant, amount, balance, receipt_id, bonus_points, user_tag, raw_description, dedup_hash, is_subscription, import_timestamp`

type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewPgxTransactionRepository creates a new repository for transaction data.
func NewPgxTransactionRepository(pool *pgxpool.Pool) ports.TransactionRepository {
	return &PgxTransactionRepository{pool: pool}
}

var _ ports.TransactionRepository = (*PgxTransactionRepository)(nil)

// FindExistingDedupHashes returns the subset of the candidate hashes that are
// already persisted.
func (r *PgxTransactionRepository) FindExistingDedupHashes(ctx context.Context, hashes []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(hashes))
	if len(hashes) == 0 {
		return existing, nil
	}

	query := `SELECT dedup_hash FROM transactions WHERE dedup_hash = ANY($1);`
	rows, err := r.pool.Query(ctx, query, hashes)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing dedup hashes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("failed to scan dedup hash: %w", err)
		}
		existing[hash] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dedup hash rows: %w", err)
	}
	return existing, nil
}

// SaveAll persists the batch and returns the set of dedup hashes actually
// inserted. The ON CONFLICT clause makes the dedup_hash unique constraint the
// source of truth: rows lost to a concurrent import are simply not returned.
func (r *PgxTransactionRepository) SaveAll(ctx context.Context, txns []domain.Transaction) (map[string]struct{}, error) {
	inserted := make(map[string]struct{}, len(txns))
	if len(txns) == 0 {
		return inserted, nil
	}

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (dedup_hash) DO NOTHING
		RETURNING dedup_hash;
	`
	// Use pgx batching for performance with large statement files
	batch := &pgx.Batch{}
	for _, txn := range txns {
		batch.Queue(query,
			txn.TransactionID,
			txn.Date,
			txn.Merchant,
			txn.Amount,
			txn.Balance,
			txn.ReceiptID,
			txn.BonusPoints,
			txn.UserTag,
			txn.RawDescription,
			txn.DedupHash,
			txn.IsSubscription,
			txn.ImportTimestamp,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	for range txns {
		rows, err := br.Query()
		if err != nil {
			_ = br.Close()
			return nil, fmt.Errorf("failed to insert transaction batch: %w", err)
		}
		for rows.Next() {
			var hash string
			if err := rows.Scan(&hash); err != nil {
				rows.Close()
				_ = br.Close()
				return nil, fmt.Errorf("failed to scan inserted dedup hash: %w", err)
			}
			inserted[hash] = struct{}{}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			_ = br.Close()
			return nil, fmt.Errorf("failed to read inserted dedup hash rows: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("failed to close transaction batch: %w", err)
	}
	return inserted, nil
}

// FindAll returns every persisted transaction, most recent first.
func (r *PgxTransactionRepository) FindAll(ctx context.Context) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY transaction_date DESC, import_timestamp DESC;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// FindByDateRange returns transactions dated within [start, end] inclusive.
func (r *PgxTransactionRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_date BETWEEN $1 AND $2
		ORDER BY transaction_date ASC;
	`
	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by date range: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// FindSpendingBetween returns spend transactions (amount < 0) within [start, end].
func (r *PgxTransactionRepository) FindSpendingBetween(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_date BETWEEN $1 AND $2 AND amount < 0
		ORDER BY transaction_date ASC;
	`
	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query spending transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// SumSpendingBetween totals absolute spend within [start, end].
func (r *PgxTransactionRepository) SumSpendingBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(ABS(amount)), 0)
		FROM transactions
		WHERE transaction_date BETWEEN $1 AND $2 AND amount < 0;
	`
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, query, start, end).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to sum spending: %w", err)
	}
	return total, nil
}

// SetSubscriptionByMerchant flips the subscription flag on a merchant's
// transactions within [start, end] and reports how many rows changed.
func (r *PgxTransactionRepository) SetSubscriptionByMerchant(ctx context.Context, merchant string, isSubscription bool, start, end time.Time) (int64, error) {
	query := `
		UPDATE transactions
		SET is_subscription = $1
		WHERE merchant = $2 AND transaction_date BETWEEN $3 AND $4;
	`
	tag, err := r.pool.Exec(ctx, query, isSubscription, merchant, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to update subscription flag for merchant %s: %w", merchant, err)
	}
	return tag.RowsAffected(), nil
}

// DeleteAll removes every transaction and reports how many were removed.
func (r *PgxTransactionRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions;`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete all transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		err := rows.Scan(
			&txn.TransactionID,
			&txn.Date,
			&txn.Merchant,
			&txn.Amount,
			&txn.Balance,
			&txn.ReceiptID,
			&txn.BonusPoints,
			&txn.UserTag,
			&txn.RawDescription,
			&txn.DedupHash,
			&txn.IsSubscription,
			&txn.ImportTimestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transaction rows: %w", err)
	}
	return txns, nil
}
