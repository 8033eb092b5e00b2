package statement

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
)

// Canonical builds the layout-specific canonical string whose digest is the
// transaction's dedup identity.
//
// Layout A rows carry a bank-assigned receipt number that is unique per real
// transaction, so it anchors the fingerprint. Layout B has no such id; its
// fingerprint is date+operation+tag+amount, which means two genuinely
// distinct same-day, same-amount, same-description charges collapse to one
// record. That is a documented limitation of the source data, not something
// to repair with a different key.
func Canonical(row domain.ParsedRow) string {
	dateISO := row.Date.Format("2006-01-02")
	amount := row.Amount.StringFixed(2)
	merchant := strings.TrimSpace(row.Merchant)

	if row.Layout == domain.LayoutA {
		return "A|" + dateISO + "|" + merchant + "|" + amount + "|" + strings.TrimSpace(row.ReceiptID)
	}
	return "B|" + dateISO + "|" + merchant + "|" + strings.TrimSpace(row.Tag) + "|" + amount
}

// DedupHash reduces the canonical string to a fixed-length hex digest.
func DedupHash(row domain.ParsedRow) string {
	sum := sha256.Sum256([]byte(Canonical(row)))
	return hex.EncodeToString(sum[:])
}

// ToTransaction materialises a parsed row into a fully constructed
// Transaction with its dedup hash attached.
func ToTransaction(row domain.ParsedRow, importedAt time.Time) domain.Transaction {
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		Date:            row.Date,
		Merchant:        row.Merchant,
		Amount:          row.Amount,
		Balance:         row.Balance,
		BonusPoints:     row.BonusPoints,
		UserTag:         row.Tag,
		RawDescription:  row.Merchant,
		DedupHash:       DedupHash(row),
		IsSubscription:  false,
		ImportTimestamp: importedAt,
	}
	if row.Layout == domain.LayoutA {
		receipt := strings.TrimSpace(row.ReceiptID)
		txn.ReceiptID = &receipt
	}
	return txn
}
