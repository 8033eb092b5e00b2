package statement

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsedRowA(receipt string) domain.ParsedRow {
	return domain.ParsedRow{
		Layout:    domain.LayoutA,
		Date:      time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		Merchant:  "MIGROS SANAL MARKET",
		Amount:    decimal.RequireFromString("-1234.56"),
		ReceiptID: receipt,
		Tag:       "Market",
	}
}

func TestCanonical_LayoutA(t *testing.T) {
	got := Canonical(parsedRowA("D123456"))
	assert.Equal(t, "A|2026-03-15|MIGROS SANAL MARKET|-1234.56|D123456", got)
}

func TestCanonical_LayoutB(t *testing.T) {
	row := domain.ParsedRow{
		Layout:   domain.LayoutB,
		Date:     time.Date(2026, time.April, 3, 0, 0, 0, 0, time.UTC),
		Merchant: "SPOTIFY",
		Amount:   decimal.RequireFromString("-59.99"),
		Tag:      "Eğlence",
	}
	assert.Equal(t, "B|2026-04-03|SPOTIFY|Eğlence|-59.99", Canonical(row))
}

func TestCanonical_TrimsWhitespace(t *testing.T) {
	row := parsedRowA("  D123456  ")
	row.Merchant = "  MIGROS SANAL MARKET  "
	assert.Equal(t, "A|2026-03-15|MIGROS SANAL MARKET|-1234.56|D123456", Canonical(row))
}

func TestDedupHash_Deterministic(t *testing.T) {
	h1 := DedupHash(parsedRowA("D123456"))
	h2 := DedupHash(parsedRowA("D123456"))

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestDedupHash_SensitiveToEveryField(t *testing.T) {
	base := parsedRowA("D123456")

	differentReceipt := parsedRowA("D999999")

	differentAmount := parsedRowA("D123456")
	differentAmount.Amount = decimal.RequireFromString("-1234.57")

	differentDate := parsedRowA("D123456")
	differentDate.Date = differentDate.Date.AddDate(0, 0, 1)

	differentLayout := parsedRowA("D123456")
	differentLayout.Layout = domain.LayoutB

	baseHash := DedupHash(base)
	assert.NotEqual(t, baseHash, DedupHash(differentReceipt))
	assert.NotEqual(t, baseHash, DedupHash(differentAmount))
	assert.NotEqual(t, baseHash, DedupHash(differentDate))
	assert.NotEqual(t, baseHash, DedupHash(differentLayout))
}

func TestToTransaction(t *testing.T) {
	importedAt := time.Date(2026, time.May, 1, 12, 30, 0, 0, time.UTC)
	bal := decimal.RequireFromString("10000")
	row := parsedRowA("D123456")
	row.Balance = &bal

	txn := ToTransaction(row, importedAt)

	assert.NotEmpty(t, txn.TransactionID)
	assert.Equal(t, row.Date, txn.Date)
	assert.Equal(t, row.Merchant, txn.Merchant)
	assert.Equal(t, row.Merchant, txn.RawDescription)
	assert.True(t, txn.Amount.Equal(row.Amount))
	require.NotNil(t, txn.ReceiptID)
	assert.Equal(t, "D123456", *txn.ReceiptID)
	require.NotNil(t, txn.Balance)
	assert.Equal(t, DedupHash(row), txn.DedupHash)
	assert.False(t, txn.IsSubscription)
	assert.Equal(t, importedAt, txn.ImportTimestamp)

	// Two materialisations of the same row get distinct ids but the same hash.
	other := ToTransaction(row, importedAt)
	assert.NotEqual(t, txn.TransactionID, other.TransactionID)
	assert.Equal(t, txn.DedupHash, other.DedupHash)
}

func TestToTransaction_LayoutBHasNoReceipt(t *testing.T) {
	row := domain.ParsedRow{
		Layout:   domain.LayoutB,
		Date:     time.Date(2026, time.April, 3, 0, 0, 0, 0, time.UTC),
		Merchant: "SPOTIFY",
		Amount:   decimal.RequireFromString("-59.99"),
	}

	txn := ToTransaction(row, time.Now())

	assert.Nil(t, txn.ReceiptID)
}
