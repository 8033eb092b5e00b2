package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementLayout identifies which of the two known spreadsheet structures a
// statement file follows.
type StatementLayout string

const (
	// LayoutA is the debit-like layout: date, description, tag, amount,
	// balance and receipt-id columns.
	LayoutA StatementLayout = "A"
	// LayoutB is the credit-like layout: date, operation, tag, bonus-points
	// and amount-in-currency columns.
	LayoutB StatementLayout = "B"
	// LayoutUnknown means neither header set matched; the file cannot be imported.
	LayoutUnknown StatementLayout = "UNKNOWN"
)

// ParsedRow is the transient pre-hash intermediate emitted by the row
// extractor and consumed by the canonicalizer. Optional decimal fields are
// pointers so absence is distinguishable from zero; ReceiptID and Tag stay
// plain strings because empty means absent for both.
type ParsedRow struct {
	Layout      StatementLayout
	Date        time.Time
	Merchant    string
	Amount      decimal.Decimal
	Balance     *decimal.Decimal // layout A, optional
	ReceiptID   string           // layout A, required
	Tag         string           // optional in both layouts
	BonusPoints *decimal.Decimal // layout B, optional
}
