// Package spendmath holds the pure spend-statistics calculations shared by
// the dashboard and reporting services. All functions are order-independent
// and free of side effects; money values are 2-decimal half-up, internal
// division uses 4 decimals before final rounding.
package spendmath

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
)

const (
	moneyScale    = 2
	internalScale = 4
)

var oneHundred = decimal.NewFromInt(100)

// DataPoint is one labelled bucket of a chart series.
type DataPoint struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// TotalSpent sums the absolute amounts of the given transactions.
func TotalSpent(txns []domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount.Abs())
	}
	return total.Round(moneyScale)
}

// ChangePercent computes the percentage change from previous to current.
// A non-positive previous total yields zero rather than a division error.
func ChangePercent(current, previous decimal.Decimal) decimal.Decimal {
	if previous.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero.Round(moneyScale)
	}
	return current.Sub(previous).
		DivRound(previous, internalScale).
		Mul(oneHundred).
		Round(moneyScale)
}

// AveragePerActiveDay divides the total by the number of distinct
// transaction dates; zero when there are none.
func AveragePerActiveDay(total decimal.Decimal, txns []domain.Transaction) decimal.Decimal {
	days := map[string]bool{}
	for _, t := range txns {
		days[dayKey(t.Date)] = true
	}
	if len(days) == 0 {
		return decimal.Zero.Round(moneyScale)
	}
	return total.DivRound(decimal.NewFromInt(int64(len(days))), moneyScale)
}

// DataPoints produces an ordered, zero-filled series spanning [start, end]
// inclusive: per-day buckets normally, per-month buckets when monthly is set.
func DataPoints(txns []domain.Transaction, start, end time.Time, monthly bool) []DataPoint {
	if monthly {
		return monthlyTotals(txns, start, end)
	}
	return dailyTotals(txns, start, end)
}

func dailyTotals(txns []domain.Transaction, start, end time.Time) []DataPoint {
	totals := map[string]decimal.Decimal{}
	for _, t := range txns {
		k := dayKey(t.Date)
		totals[k] = totals[k].Add(t.Amount.Abs())
	}

	var points []DataPoint
	for d := dateOnly(start); !d.After(dateOnly(end)); d = d.AddDate(0, 0, 1) {
		k := dayKey(d)
		points = append(points, DataPoint{Label: k, Amount: totals[k].Round(moneyScale)})
	}
	return points
}

func monthlyTotals(txns []domain.Transaction, start, end time.Time) []DataPoint {
	totals := map[string]decimal.Decimal{}
	for _, t := range txns {
		k := monthKey(t.Date)
		totals[k] = totals[k].Add(t.Amount.Abs())
	}

	var points []DataPoint
	current := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !current.After(last) {
		k := monthKey(current)
		points = append(points, DataPoint{Label: k, Amount: totals[k].Round(moneyScale)})
		current = current.AddDate(0, 1, 0)
	}
	return points
}

func dayKey(t time.Time) string   { return t.Format("2006-01-02") }
func monthKey(t time.Time) string { return t.Format("2006-01") }

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
