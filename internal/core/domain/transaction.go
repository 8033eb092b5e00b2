package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical ingested record produced by the statement
// import pipeline. DedupHash is the sole identity key for deduplication:
// the database enforces a unique constraint on it.
type Transaction struct {
	TransactionID   string           `json:"transactionID"` // Primary Key (UUID)
	Date            time.Time        `json:"date"`          // Calendar date, no time component
	Merchant        string           `json:"merchant"`      // Trimmed description/operation label
	Amount          decimal.Decimal  `json:"amount"`        // Signed, 2-decimal scale; negative = spend
	Balance         *decimal.Decimal `json:"balance"`       // Balance after transaction; layout A only
	ReceiptID       *string          `json:"receiptID"`     // Bank receipt number; layout A only
	BonusPoints     *decimal.Decimal `json:"bonusPoints"`   // Layout B only
	UserTag         string           `json:"userTag"`       // Free-text tag from the source sheet
	RawDescription  string           `json:"rawDescription"`
	DedupHash       string           `json:"dedupHash"`
	IsSubscription  bool             `json:"isSubscription"`
	ImportTimestamp time.Time        `json:"importTimestamp"`
}
