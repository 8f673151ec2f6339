package service

import "time"

const (
	DefaultMaxComparisonItems = 4

	ExportVersion = "1.0"

	// Suggestion thresholds.
	SuggestPriceSpread       = 500.0
	SuggestPerformanceSpread = 30.0

	MinFeedbackRating = 1
	MaxFeedbackRating = 5

	MaxStoredAnalyticsEvents = 100
	AnalyticsQueueSize       = 256

	analyticsSendTimeout  = 5 * time.Second
	analyticsDrainTimeout = 5 * time.Second

	SessionIDPrefix = "session_"
)
