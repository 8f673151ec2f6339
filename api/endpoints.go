package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"pc-recommender/domain"
)

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// Auth

func (c *Client) Signup(ctx context.Context, in domain.SignupInput) (domain.SignupResponse, error) {
	var out domain.SignupResponse
	err := c.do(ctx, http.MethodPost, "/auth/signup", nil, in, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, in domain.LoginInput) (domain.AuthResponse, error) {
	var out domain.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, in, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (domain.AuthResponse, error) {
	var out domain.AuthResponse
	in := map[string]string{"refresh_token": refreshToken}
	err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, in, &out)
	return out, err
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out)
	return out, err
}

func (c *Client) ChangePassword(ctx context.Context, in domain.PasswordChange) error {
	return c.do(ctx, http.MethodPut, "/auth/password", nil, in, nil)
}

// Recommendations

func (c *Client) CreateRecommendations(
	ctx context.Context,
	req domain.RecommendationRequest,
) (domain.RecommendationResponse, error) {
	var out domain.RecommendationResponse
	err := c.do(ctx, http.MethodPost, "/recommendations", nil, req, &out)
	return out, err
}

func (c *Client) GetRecommendation(ctx context.Context, id string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodGet, "/recommendations/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

// Components

func (c *Client) ListComponents(ctx context.Context, filter domain.ComponentFilter) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodGet, "/components", componentQuery(filter), nil, &out)
	return out, err
}

func (c *Client) GetComponent(ctx context.Context, id string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodGet, "/components/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func componentQuery(f domain.ComponentFilter) url.Values {
	q := url.Values{}
	if f.ComponentType != "" {
		q.Set("component_type", f.ComponentType)
	}
	if f.Brand != "" {
		q.Set("brand", f.Brand)
	}
	if f.MinPrice != nil {
		q.Set("min_price", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		q.Set("max_price", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(f.PageSize))
	}
	return q
}

// Feedback

func (c *Client) SubmitFeedback(ctx context.Context, fb domain.Feedback) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodPost, "/feedback", nil, fb, &out)
	return out, err
}

// Users

func (c *Client) UpdateUserProfile(ctx context.Context, profile json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodPut, "/users/profile", nil, profile, &out)
	return out, err
}

func (c *Client) GetUserPreferences(ctx context.Context) (domain.UserPreferences, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodGet, "/users/preferences", nil, nil, &out)
	return out, err
}

func (c *Client) UpdateUserPreferences(ctx context.Context, prefs domain.UserPreferences) (domain.UserPreferences, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodPut, "/users/preferences", nil, prefs, &out)
	return out, err
}

func (c *Client) GetUserRecommendations(ctx context.Context, page, pageSize int) (json.RawMessage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	var out json.RawMessage
	err := c.do(ctx, http.MethodGet, "/users/recommendations", q, nil, &out)
	return out, err
}

// Analytics

func (c *Client) SendAnalyticsEvent(ctx context.Context, event domain.AnalyticsEvent) error {
	return c.do(ctx, http.MethodPost, "/analytics/events", nil, event, nil)
}
