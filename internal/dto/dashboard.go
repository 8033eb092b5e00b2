package dto

import (
	"github.com/shopspring/decimal"
	"github.com/spendinganalytics/spending_analytics_app/internal/utils/spendmath"
)

// DashboardSummaryResponse carries the spend KPIs for the dashboard view.
// The current/previous comparison is always month-over-month; the chart
// series spans the requested period.
type DashboardSummaryResponse struct {
	CurrentSpending        decimal.Decimal      `json:"currentSpending"`
	PreviousSpending       decimal.Decimal      `json:"previousSpending"`
	ChangePercent          decimal.Decimal      `json:"changePercent"`
	AveragePerActiveDay    decimal.Decimal      `json:"averagePerActiveDay"`
	ProjectedMonthEnd      decimal.Decimal      `json:"projectedMonthEnd"`
	ProjectedChangePercent decimal.Decimal      `json:"projectedChangePercent"`
	DataPoints             []spendmath.DataPoint `json:"dataPoints"`
}
