package domain

import "encoding/json"

type Component struct {
	Type  string  `json:"type"`
	Name  string  `json:"name"`
	Brand string  `json:"brand"`
	Price float64 `json:"price"`
}

// PCConfiguration is a recommended build as returned by the recommendation
// API. Enrichment fields are kept as raw JSON so they round-trip untouched.
type PCConfiguration struct {
	ConfigurationID string      `json:"configuration_id"`
	Name            string      `json:"name"`
	TotalPrice      float64     `json:"total_price"`
	ConfidenceScore float64     `json:"confidence_score"`
	Components      []Component `json:"components"`

	MatchReasons       json.RawMessage `json:"match_reasons,omitempty"`
	TradeOffs          json.RawMessage `json:"trade_offs,omitempty"`
	PerformanceProfile json.RawMessage `json:"performance_profile,omitempty"`
	SuitabilityScores  json.RawMessage `json:"suitability_scores,omitempty"`
}

// OverallPerformance reads performance_profile.overall_performance.
// Missing or malformed profiles count as 0.
func (c PCConfiguration) OverallPerformance() float64 {
	if len(c.PerformanceProfile) == 0 {
		return 0
	}
	var profile struct {
		OverallPerformance *float64 `json:"overall_performance"`
	}
	if err := json.Unmarshal(c.PerformanceProfile, &profile); err != nil {
		return 0
	}
	if profile.OverallPerformance == nil {
		return 0
	}
	return *profile.OverallPerformance
}

// ValueRatio is confidence per unit of price. Non-positive prices yield 0.
func (c PCConfiguration) ValueRatio() float64 {
	if c.TotalPrice <= 0 {
		return 0
	}
	return c.ConfidenceScore / c.TotalPrice
}
