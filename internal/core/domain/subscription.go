package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency labels the detected charge interval of a merchant group.
type Frequency string

const (
	FrequencyMonthly   Frequency = "Monthly"
	FrequencyWeekly    Frequency = "Weekly"
	FrequencyQuarterly Frequency = "Quarterly"
	FrequencyIrregular Frequency = "Irregular"
)

// MerchantAggregate summarises a merchant's recurring-payment profile over
// the detection window.
type MerchantAggregate struct {
	Merchant         string          `json:"merchant"`
	TransactionCount int             `json:"transactionCount"`
	AvgAmount        decimal.Decimal `json:"avgAmount"`
	VariancePercent  float64         `json:"variancePercent"`
	Frequency        Frequency       `json:"frequency"`
	FirstDate        time.Time       `json:"firstDate"`
	LastDate         time.Time       `json:"lastDate"`
	IsActive         bool            `json:"isActive"` // charged within the last 60 days
}
