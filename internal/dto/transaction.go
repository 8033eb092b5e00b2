package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
)

// TransactionResponse defines the data returned for a transaction.
// Mirrors domain.Transaction; dates are rendered as plain calendar dates.
type TransactionResponse struct {
	TransactionID   string           `json:"transactionID"`
	Date            string           `json:"date"`
	Merchant        string           `json:"merchant"`
	Amount          decimal.Decimal  `json:"amount"`
	Balance         *decimal.Decimal `json:"balance,omitempty"`
	ReceiptID       *string          `json:"receiptID,omitempty"`
	BonusPoints     *decimal.Decimal `json:"bonusPoints,omitempty"`
	UserTag         string           `json:"userTag,omitempty"`
	RawDescription  string           `json:"rawDescription"`
	IsSubscription  bool             `json:"isSubscription"`
	ImportTimestamp time.Time        `json:"importTimestamp"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   t.TransactionID,
		Date:            t.Date.Format("2006-01-02"),
		Merchant:        t.Merchant,
		Amount:          t.Amount,
		Balance:         t.Balance,
		ReceiptID:       t.ReceiptID,
		BonusPoints:     t.BonusPoints,
		UserTag:         t.UserTag,
		RawDescription:  t.RawDescription,
		IsSubscription:  t.IsSubscription,
		ImportTimestamp: t.ImportTimestamp,
	}
}

// ToTransactionResponses converts a slice of transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, ToTransactionResponse(t))
	}
	return out
}
