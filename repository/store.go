package repository

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Keys of the values the client persists locally.
const (
	KeyComparisonList       = "comparisonList"
	KeyLegacyComparison     = "pcComparison"
	KeyAccessToken          = "accessToken"
	KeyRefreshToken         = "refreshToken"
	KeyUser                 = "user"
	KeyThemeMode            = "themeMode"
	KeyAnalyticsConsent     = "analyticsConsent"
	KeyRetryAnalyticsEvents = "retryAnalyticsEvents"
	KeyLastRecommendations  = "lastRecommendations"
)

// ErrCorrupt is returned by ReadJSON when a stored value cannot be decoded.
var ErrCorrupt = errors.New("corrupt stored value")

// Store is a string key/value store. Get reports a missing key with
// ok=false and a nil error; errors are reserved for an unavailable backend.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key string, value string) error
	Delete(key string) error
	Close() error
}

// ReadJSON decodes the value stored under key into v.
func ReadJSON(s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("%w under %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

// WriteJSON encodes v and stores it under key.
func WriteJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
