package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pc-recommender/domain"
	"pc-recommender/repository"
)

var authKeys = []string{
	repository.KeyAccessToken,
	repository.KeyRefreshToken,
	repository.KeyUser,
}

// AuthService runs the login flow and owns the persisted session: access
// token, refresh token and the signed-in user.
type AuthService struct {
	api    AuthAPI
	store  repository.Store
	logger *zap.Logger
}

func NewAuthService(api AuthAPI, store repository.Store, logger *zap.Logger) *AuthService {
	return &AuthService{api: api, store: store, logger: logger}
}

func (s *AuthService) Signup(ctx context.Context, fullName, email, password string) (*domain.User, error) {
	if strings.TrimSpace(fullName) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: full name, email and password are required", ErrInvalidInput)
	}
	resp, err := s.api.Signup(ctx, domain.SignupInput{
		FullName: fullName,
		Email:    email,
		Password: password,
	})
	if err != nil {
		s.logger.Error("Signup failed", zap.Error(err))
		return nil, fmt.Errorf("signup: %w", err)
	}
	return resp.User, nil
}

// Login authenticates and persists the session. The response must carry
// both an access token and the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	resp, err := s.api.Login(ctx, domain.LoginInput{Email: email, Password: password})
	if err != nil {
		s.logger.Error("Login failed", zap.Error(err))
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token", ErrInvalidAuthResult)
	}
	if resp.User == nil {
		return nil, fmt.Errorf("%w: user information not provided", ErrInvalidAuthResult)
	}

	if err := s.persist(resp.AccessToken, resp.RefreshToken, resp.User); err != nil {
		s.clearSession()
		return nil, err
	}

	s.logger.Info("User authenticated", zap.String("email", resp.User.Email))
	return resp.User, nil
}

// Logout tells the server and then forgets the local session regardless
// of the server's answer.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		s.logger.Warn("server logout failed", zap.Error(err))
	}
	return s.clearSession()
}

// Refresh trades the stored refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context) error {
	var refreshToken string
	if _, err := repository.ReadJSON(s.store, repository.KeyRefreshToken, &refreshToken); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if refreshToken == "" {
		return ErrNotAuthenticated
	}

	resp, err := s.api.Refresh(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	if resp.AccessToken == "" {
		return fmt.Errorf("%w: no access token", ErrInvalidAuthResult)
	}

	if err := repository.WriteJSON(s.store, repository.KeyAccessToken, resp.AccessToken); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if resp.RefreshToken != "" {
		if err := repository.WriteJSON(s.store, repository.KeyRefreshToken, resp.RefreshToken); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}
	if resp.User != nil {
		if err := repository.WriteJSON(s.store, repository.KeyUser, resp.User); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}
	return nil
}

// CurrentUser returns the stored user when a session exists. A corrupt
// stored user ends the session.
func (s *AuthService) CurrentUser() (*domain.User, error) {
	var token string
	if _, err := repository.ReadJSON(s.store, repository.KeyAccessToken, &token); err != nil {
		if errors.Is(err, repository.ErrCorrupt) {
			s.logger.Warn("Error parsing stored session", zap.Error(err))
			s.clearSession()
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	var user domain.User
	ok, err := repository.ReadJSON(s.store, repository.KeyUser, &user)
	if err != nil {
		if errors.Is(err, repository.ErrCorrupt) {
			s.logger.Warn("Error parsing stored user", zap.Error(err))
			s.clearSession()
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if !ok || token == "" {
		return nil, nil
	}
	return &user, nil
}

func (s *AuthService) IsAuthenticated() bool {
	user, err := s.CurrentUser()
	return err == nil && user != nil
}

func (s *AuthService) Me(ctx context.Context) (domain.User, error) {
	user, err := s.api.Me(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("me: %w", err)
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, current, next string) error {
	if current == "" || next == "" {
		return fmt.Errorf("%w: current and new password are required", ErrInvalidInput)
	}
	if err := s.api.ChangePassword(ctx, domain.PasswordChange{CurrentPassword: current, NewPassword: next}); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, profile json.RawMessage) (json.RawMessage, error) {
	if !json.Valid(profile) {
		return nil, fmt.Errorf("%w: profile must be valid JSON", ErrInvalidInput)
	}
	out, err := s.api.UpdateUserProfile(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return out, nil
}

func (s *AuthService) GetPreferences(ctx context.Context) (domain.UserPreferences, error) {
	prefs, err := s.api.GetUserPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return prefs, nil
}

func (s *AuthService) UpdatePreferences(ctx context.Context, prefs domain.UserPreferences) (domain.UserPreferences, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(prefs, &obj); err != nil || obj == nil {
		return nil, fmt.Errorf("%w: preferences must be a JSON object", ErrInvalidInput)
	}
	out, err := s.api.UpdateUserPreferences(ctx, prefs)
	if err != nil {
		return nil, fmt.Errorf("update preferences: %w", err)
	}
	return out, nil
}

// History lists the recommendations the signed-in user received.
func (s *AuthService) History(ctx context.Context, page, pageSize int) (json.RawMessage, error) {
	out, err := s.api.GetUserRecommendations(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("recommendation history: %w", err)
	}
	return out, nil
}

func (s *AuthService) persist(accessToken, refreshToken string, user *domain.User) error {
	values := []struct {
		key   string
		value any
	}{
		{repository.KeyAccessToken, accessToken},
		{repository.KeyRefreshToken, refreshToken},
		{repository.KeyUser, user},
	}
	for _, v := range values {
		if err := repository.WriteJSON(s.store, v.key, v.value); err != nil {
			s.logger.Error("Failed to store authentication data", zap.Error(err))
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}
	return nil
}

func (s *AuthService) clearSession() error {
	var errs []error
	for _, key := range authKeys {
		if err := s.store.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		s.logger.Error("failed to clear session", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
