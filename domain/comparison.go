package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SortCriteria string

const (
	SortByPrice       SortCriteria = "price"
	SortByPerformance SortCriteria = "performance"
	SortByConfidence  SortCriteria = "confidence"
	SortByValue       SortCriteria = "value"
)

// ComparisonResult reports the outcome of a comparison list mutation.
// Business rule violations are carried in Err rather than returned.
type ComparisonResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
	Code    string `json:"code,omitempty"`
	Err     error  `json:"-"`
}

// Amount is a decimal that encodes as a bare JSON number. Decoding accepts
// numbers and quoted strings.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

type PriceRange struct {
	Min        Amount `json:"min"`
	Max        Amount `json:"max"`
	Difference Amount `json:"difference"`
}

type ComparisonStats struct {
	Count         int              `json:"count"`
	PriceRange    *PriceRange      `json:"price_range,omitempty"`
	AvgConfidence int              `json:"avg_confidence"`
	BestValue     *PCConfiguration `json:"best_value,omitempty"`
}

type ComparisonExport struct {
	Items      []PCConfiguration `json:"items"`
	Stats      ComparisonStats   `json:"stats"`
	ExportedAt time.Time         `json:"exported_at"`
	Version    string            `json:"version"`
}

type Suggestion struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}
