package dto

import (
	"github.com/shopspring/decimal"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
)

// SubscriptionResponse defines the data returned for a detected or
// confirmed subscription merchant group.
type SubscriptionResponse struct {
	Merchant         string          `json:"merchant"`
	AvgAmount        decimal.Decimal `json:"avgAmount"`
	TransactionCount int             `json:"transactionCount"`
	Frequency        domain.Frequency `json:"frequency"`
	VariancePercent  float64         `json:"variancePercent"`
	FirstDate        string          `json:"firstDate"`
	LastDate         string          `json:"lastDate"`
	IsActive         bool            `json:"isActive"`
}

// MarkSubscriptionRequest names the merchant whose transactions should be
// flagged or unflagged as a subscription.
type MarkSubscriptionRequest struct {
	Merchant string `json:"merchant" binding:"required"`
}

// ToSubscriptionResponse converts a merchant aggregate to its response DTO.
func ToSubscriptionResponse(a domain.MerchantAggregate) SubscriptionResponse {
	return SubscriptionResponse{
		Merchant:         a.Merchant,
		AvgAmount:        a.AvgAmount,
		TransactionCount: a.TransactionCount,
		Frequency:        a.Frequency,
		VariancePercent:  a.VariancePercent,
		FirstDate:        a.FirstDate.Format("2006-01-02"),
		LastDate:         a.LastDate.Format("2006-01-02"),
		IsActive:         a.IsActive,
	}
}

// ToSubscriptionResponses converts a slice of merchant aggregates.
func ToSubscriptionResponses(aggs []domain.MerchantAggregate) []SubscriptionResponse {
	out := make([]SubscriptionResponse, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, ToSubscriptionResponse(a))
	}
	return out
}
