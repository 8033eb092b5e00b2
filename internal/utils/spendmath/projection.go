package spendmath

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
)

// The historical day-of-month fraction is clamped away from the extremes so
// a single early or late charge cannot blow up the implied month total.
var (
	minFraction = decimal.RequireFromString("0.02")
	maxFraction = decimal.RequireFromString("0.98")
)

// Projection is the month-end spend forecast with its deviation from the
// usual monthly spending.
type Projection struct {
	Projected          decimal.Decimal `json:"projected"`
	ComparedPercentage decimal.Decimal `json:"comparedPercentage"`
}

// ProjectedMonthEnd forecasts the current month's total spend. With fewer
// than three nonzero history months it is a plain pace extrapolation of
// spend-to-date. With enough history it blends the usual monthly total with
// a pace estimate corrected by the historical share of a month's spend
// normally realised by this day-of-month; the blend weight shifts toward
// the corrected estimate as the month progresses.
func ProjectedMonthEnd(asOf time.Time, currentMonth, history []domain.Transaction) Projection {
	spentSoFar := TotalSpent(currentMonth)
	dayNumber := asOf.Day()
	totalDaysInMonth := daysInMonth(asOf.Year(), asOf.Month())

	monthTotal := map[string]decimal.Decimal{}
	for _, t := range history {
		k := monthKey(t.Date)
		monthTotal[k] = monthTotal[k].Add(t.Amount.Abs())
	}

	var nonZeroMonths []string
	for m, total := range monthTotal {
		if total.GreaterThan(decimal.Zero) {
			nonZeroMonths = append(nonZeroMonths, m)
		}
	}
	sort.Strings(nonZeroMonths)

	usualMonthlySpending := averageMonthlyTotal(monthTotal, nonZeroMonths).Round(moneyScale)

	if len(nonZeroMonths) < 3 {
		projected := paceProjection(spentSoFar, dayNumber, totalDaysInMonth)
		return Projection{Projected: projected, ComparedPercentage: ChangePercent(projected, usualMonthlySpending)}
	}

	var projected decimal.Decimal
	usualFraction := averageFractionSpentByDay(history, monthTotal, nonZeroMonths, dayNumber)
	if usualFraction.LessThanOrEqual(decimal.Zero) {
		projected = paceProjection(spentSoFar, dayNumber, totalDaysInMonth)
	} else {
		usualFraction = clamp(usualFraction, minFraction, maxFraction)

		impliedMonthTotal := spentSoFar.DivRound(usualFraction, internalScale)
		usualSpendingSoFar := usualMonthlySpending.Mul(usualFraction).Round(internalScale)

		speedFactor := decimal.NewFromInt(1)
		if usualSpendingSoFar.GreaterThan(decimal.Zero) {
			speedFactor = spentSoFar.Round(internalScale).DivRound(usualSpendingSoFar, internalScale)
		}
		correctedImplied := impliedMonthTotal.Mul(speedFactor)

		trustWeight := decimal.NewFromInt(int64(dayNumber)).
			DivRound(decimal.NewFromInt(int64(totalDaysInMonth)), internalScale)

		projected = decimal.NewFromInt(1).Sub(trustWeight).Mul(usualMonthlySpending).
			Add(trustWeight.Mul(correctedImplied)).
			Round(moneyScale)
	}

	return Projection{Projected: projected, ComparedPercentage: ChangePercent(projected, usualMonthlySpending)}
}

// PaceProjection extrapolates spend-to-date linearly to the full month.
func PaceProjection(spentSoFar decimal.Decimal, dayNumber, totalDaysInMonth int) decimal.Decimal {
	return paceProjection(spentSoFar, dayNumber, totalDaysInMonth)
}

func paceProjection(spentSoFar decimal.Decimal, dayNumber, totalDaysInMonth int) decimal.Decimal {
	return spentSoFar.
		DivRound(decimal.NewFromInt(int64(dayNumber)), internalScale).
		Mul(decimal.NewFromInt(int64(totalDaysInMonth))).
		Round(moneyScale)
}

func averageMonthlyTotal(monthTotal map[string]decimal.Decimal, months []string) decimal.Decimal {
	if len(months) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, m := range months {
		sum = sum.Add(monthTotal[m])
	}
	return sum.DivRound(decimal.NewFromInt(int64(len(months))), internalScale)
}

// averageFractionSpentByDay computes, per nonzero history month, the share
// of that month's total spent through the day numerically equal to
// dayNumber (clamped to the month's length), and averages those shares.
func averageFractionSpentByDay(history []domain.Transaction, monthTotal map[string]decimal.Decimal, nonZeroMonths []string, dayNumber int) decimal.Decimal {
	dailyByMonth := map[string]map[string]decimal.Decimal{}
	for _, t := range history {
		mk := monthKey(t.Date)
		if dailyByMonth[mk] == nil {
			dailyByMonth[mk] = map[string]decimal.Decimal{}
		}
		dk := dayKey(t.Date)
		dailyByMonth[mk][dk] = dailyByMonth[mk][dk].Add(t.Amount.Abs())
	}

	sumFractions := decimal.Zero
	count := 0
	for _, mk := range nonZeroMonths {
		total := monthTotal[mk]
		if total.LessThanOrEqual(decimal.Zero) {
			continue
		}

		monthStart, err := time.Parse("2006-01", mk)
		if err != nil {
			continue
		}
		comparisonDay := min(dayNumber, daysInMonth(monthStart.Year(), monthStart.Month()))
		cutoff := time.Date(monthStart.Year(), monthStart.Month(), comparisonDay, 0, 0, 0, 0, time.UTC)

		cumulative := decimal.Zero
		for dk, amount := range dailyByMonth[mk] {
			day, err := time.Parse("2006-01-02", dk)
			if err != nil {
				continue
			}
			if !day.After(cutoff) {
				cumulative = cumulative.Add(amount)
			}
		}

		sumFractions = sumFractions.Add(cumulative.Round(internalScale).DivRound(total, internalScale))
		count++
	}

	if count == 0 {
		return decimal.Zero
	}
	return sumFractions.DivRound(decimal.NewFromInt(int64(count)), internalScale)
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}
