package domain

import "time"

// InsightType labels the heuristic that produced an insight.
type InsightType string

const (
	// InsightRecurringCharge flags a merchant charged repeatedly in a short window.
	InsightRecurringCharge InsightType = "recurring_charge"
	// InsightWeekendSpending flags weekend spend far above weekday spend.
	InsightWeekendSpending InsightType = "weekend_spending"
)

// Insight is a generated spending observation. Insights are derived from the
// transaction history on demand and carry no identity of their own.
type Insight struct {
	Type        InsightType
	Title       string
	Description string
	Severity    string
	GeneratedAt time.Time
}
