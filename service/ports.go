package service

import (
	"context"
	"encoding/json"

	"pc-recommender/domain"
)

// The services depend on these narrow views of the API client so tests can
// swap in fakes.

type RecommendationAPI interface {
	CreateRecommendations(ctx context.Context, req domain.RecommendationRequest) (domain.RecommendationResponse, error)
	GetRecommendation(ctx context.Context, id string) (json.RawMessage, error)
	ListComponents(ctx context.Context, filter domain.ComponentFilter) (json.RawMessage, error)
	GetComponent(ctx context.Context, id string) (json.RawMessage, error)
	SubmitFeedback(ctx context.Context, fb domain.Feedback) (json.RawMessage, error)
}

type AuthAPI interface {
	Signup(ctx context.Context, in domain.SignupInput) (domain.SignupResponse, error)
	Login(ctx context.Context, in domain.LoginInput) (domain.AuthResponse, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context, refreshToken string) (domain.AuthResponse, error)
	Me(ctx context.Context) (domain.User, error)
	ChangePassword(ctx context.Context, in domain.PasswordChange) error
	UpdateUserProfile(ctx context.Context, profile json.RawMessage) (json.RawMessage, error)
	GetUserPreferences(ctx context.Context) (domain.UserPreferences, error)
	UpdateUserPreferences(ctx context.Context, prefs domain.UserPreferences) (domain.UserPreferences, error)
	GetUserRecommendations(ctx context.Context, page, pageSize int) (json.RawMessage, error)
}

type AnalyticsAPI interface {
	SendAnalyticsEvent(ctx context.Context, event domain.AnalyticsEvent) error
}
