package dto

import (
	"time"

	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
)

// InsightResponse defines the data returned for one generated insight.
type InsightResponse struct {
	Type        domain.InsightType `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Severity    string             `json:"severity"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

// ToInsightResponse converts an insight to its response DTO.
func ToInsightResponse(in domain.Insight) InsightResponse {
	return InsightResponse{
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		Severity:    in.Severity,
		GeneratedAt: in.GeneratedAt,
	}
}

// ToInsightResponses converts a slice of insights.
func ToInsightResponses(insights []domain.Insight) []InsightResponse {
	out := make([]InsightResponse, 0, len(insights))
	for _, in := range insights {
		out = append(out, ToInsightResponse(in))
	}
	return out
}
