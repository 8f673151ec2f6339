package service

import (
	"slices"

	"github.com/google/uuid"

	"pc-recommender/domain"
)

// Validation is the outcome of checking a recommendation request.
type Validation struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// ValidateRequirements checks a recommendation request before it is sent.
// It reports every violation rather than stopping at the first one, in
// the order session, purpose, budget, performance level.
func ValidateRequirements(req domain.RecommendationRequest) Validation {
	errs := []string{}

	if req.SessionID == "" {
		errs = append(errs, "Session ID is required")
	}

	if req.Purpose == "" {
		errs = append(errs, "Purpose is required")
	} else if !slices.Contains(domain.Purposes, req.Purpose) {
		errs = append(errs, "Invalid purpose selected")
	}

	if req.Budget == nil {
		errs = append(errs, "Budget is required")
	} else {
		if req.Budget.Min == nil || *req.Budget.Min < 0 {
			errs = append(errs, "Valid minimum budget is required")
		}
		if req.Budget.Max == nil || (req.Budget.Min != nil && *req.Budget.Max < *req.Budget.Min) {
			errs = append(errs, "Valid maximum budget is required and must be greater than minimum")
		}
	}

	if req.PerformanceLevel == "" {
		errs = append(errs, "Performance level is required")
	} else if !slices.Contains(domain.PerformanceLevels, req.PerformanceLevel) {
		errs = append(errs, "Invalid performance level selected")
	}

	return Validation{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// NewSessionID returns an opaque id for one recommendation submission.
func NewSessionID() string {
	return SessionIDPrefix + uuid.NewString()
}

// NewRequirements builds a request with a fresh session id. Brand and
// feature lists are never nil so they encode as empty arrays.
func NewRequirements(
	purpose domain.Purpose,
	budget *domain.Budget,
	level domain.PerformanceLevel,
	preferredBrands []string,
	mustHaveFeatures []string,
) domain.RecommendationRequest {
	if preferredBrands == nil {
		preferredBrands = []string{}
	}
	if mustHaveFeatures == nil {
		mustHaveFeatures = []string{}
	}
	return domain.RecommendationRequest{
		SessionID:        NewSessionID(),
		Purpose:          purpose,
		Budget:           budget,
		PerformanceLevel: level,
		PreferredBrands:  preferredBrands,
		MustHaveFeatures: mustHaveFeatures,
	}
}
