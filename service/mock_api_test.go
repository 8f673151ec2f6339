package service

import (
	"context"
	"encoding/json"
	"sync"

	"pc-recommender/domain"
)

// MockAPI implements every API port with canned answers and records what
// it was sent.
type MockAPI struct {
	mu sync.Mutex

	RecommendationResponse domain.RecommendationResponse
	RecommendationDetails  map[string]json.RawMessage
	AuthResponse           domain.AuthResponse
	Err                    error
	ErrFor                 map[string]error

	CreateCalls    int
	LogoutCalls    int
	RefreshToken   string
	Feedback       []domain.Feedback
	Events         []domain.AnalyticsEvent
	// SendGate, when set, holds every analytics send until it is closed.
	SendGate chan struct{}
	Preferences    domain.UserPreferences
	ComponentQuery domain.ComponentFilter
}

func (m *MockAPI) CreateRecommendations(_ context.Context, _ domain.RecommendationRequest) (domain.RecommendationResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	return m.RecommendationResponse, m.Err
}

func (m *MockAPI) GetRecommendation(_ context.Context, id string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ErrFor[id]; err != nil {
		return nil, err
	}
	return m.RecommendationDetails[id], m.Err
}

func (m *MockAPI) ListComponents(_ context.Context, filter domain.ComponentFilter) (json.RawMessage, error) {
	m.ComponentQuery = filter
	return json.RawMessage(`{"items": []}`), m.Err
}

func (m *MockAPI) GetComponent(_ context.Context, id string) (json.RawMessage, error) {
	return json.RawMessage(`{"id": "` + id + `"}`), m.Err
}

func (m *MockAPI) SubmitFeedback(_ context.Context, fb domain.Feedback) (json.RawMessage, error) {
	m.Feedback = append(m.Feedback, fb)
	return json.RawMessage(`{"status": "ok"}`), m.Err
}

func (m *MockAPI) Signup(_ context.Context, in domain.SignupInput) (domain.SignupResponse, error) {
	return domain.SignupResponse{User: &domain.User{Email: in.Email, FullName: in.FullName}}, m.Err
}

func (m *MockAPI) Login(_ context.Context, _ domain.LoginInput) (domain.AuthResponse, error) {
	return m.AuthResponse, m.Err
}

func (m *MockAPI) Logout(_ context.Context) error {
	m.LogoutCalls++
	return m.Err
}

func (m *MockAPI) Refresh(_ context.Context, refreshToken string) (domain.AuthResponse, error) {
	m.RefreshToken = refreshToken
	return m.AuthResponse, m.Err
}

func (m *MockAPI) Me(_ context.Context) (domain.User, error) {
	if m.AuthResponse.User == nil {
		return domain.User{}, m.Err
	}
	return *m.AuthResponse.User, m.Err
}

func (m *MockAPI) ChangePassword(_ context.Context, _ domain.PasswordChange) error {
	return m.Err
}

func (m *MockAPI) UpdateUserProfile(_ context.Context, profile json.RawMessage) (json.RawMessage, error) {
	return profile, m.Err
}

func (m *MockAPI) GetUserPreferences(_ context.Context) (domain.UserPreferences, error) {
	return m.Preferences, m.Err
}

func (m *MockAPI) UpdateUserPreferences(_ context.Context, prefs domain.UserPreferences) (domain.UserPreferences, error) {
	m.Preferences = prefs
	return prefs, m.Err
}

func (m *MockAPI) GetUserRecommendations(_ context.Context, _, _ int) (json.RawMessage, error) {
	return json.RawMessage(`[]`), m.Err
}

func (m *MockAPI) SendAnalyticsEvent(ctx context.Context, event domain.AnalyticsEvent) error {
	if m.SendGate != nil {
		select {
		case <-m.SendGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Events = append(m.Events, event)
	return nil
}
