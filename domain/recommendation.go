package domain

import (
	"encoding/json"
	"time"
)

type Purpose string

const (
	PurposeGaming      Purpose = "gaming"
	PurposeOffice      Purpose = "office"
	PurposeCreative    Purpose = "creative"
	PurposeProgramming Purpose = "programming"
	PurposeGeneral     Purpose = "general"
)

var Purposes = []Purpose{
	PurposeGaming,
	PurposeOffice,
	PurposeCreative,
	PurposeProgramming,
	PurposeGeneral,
}

type PerformanceLevel string

const (
	PerformanceBasic        PerformanceLevel = "basic"
	PerformanceStandard     PerformanceLevel = "standard"
	PerformanceHigh         PerformanceLevel = "high"
	PerformanceProfessional PerformanceLevel = "professional"
)

var PerformanceLevels = []PerformanceLevel{
	PerformanceBasic,
	PerformanceStandard,
	PerformanceHigh,
	PerformanceProfessional,
}

// Budget bounds are pointers so that a missing bound can be told apart
// from an explicit zero.
type Budget struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

func NewBudget(lo, hi float64) *Budget {
	return &Budget{Min: &lo, Max: &hi}
}

type RecommendationRequest struct {
	SessionID        string           `json:"session_id"`
	Purpose          Purpose          `json:"purpose"`
	Budget           *Budget          `json:"budget"`
	PerformanceLevel PerformanceLevel `json:"performance_level"`
	PreferredBrands  []string         `json:"preferred_brands"`
	MustHaveFeatures []string         `json:"must_have_features"`
}

type RecommendationResponse struct {
	Recommendations []PCConfiguration `json:"recommendations"`
	Metadata        json.RawMessage   `json:"metadata,omitempty"`
	ExpiresAt       *time.Time        `json:"expires_at,omitempty"`
}

type Feedback struct {
	RecommendationID  string `json:"recommendation_id"`
	Helpful           bool   `json:"helpful"`
	Rating            *int   `json:"rating,omitempty"`
	PurchasedConfigID string `json:"purchased_config_id,omitempty"`
	Comments          string `json:"comments,omitempty"`
}

type ComponentFilter struct {
	ComponentType string
	Brand         string
	MinPrice      *float64
	MaxPrice      *float64
	Page          int
	PageSize      int
}
