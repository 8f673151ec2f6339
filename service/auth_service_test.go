package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pc-recommender/domain"
	"pc-recommender/repository"
)

func signedIn() domain.AuthResponse {
	return domain.AuthResponse{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         &domain.User{ID: "u1", Email: "ana@example.com", FullName: "Ana"},
	}
}

func TestLogin_PersistsSession(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewAuthService(&MockAPI{AuthResponse: signedIn()}, store, zap.NewNop())

	user, err := svc.Login(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	assert.Equal(t, `"access-1"`, store.Data[repository.KeyAccessToken])
	assert.Equal(t, `"refresh-1"`, store.Data[repository.KeyRefreshToken])
	assert.True(t, svc.IsAuthenticated())

	current, err := svc.CurrentUser()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "ana@example.com", current.Email)
}

func TestLogin_RejectsIncompleteResponse(t *testing.T) {
	noToken := signedIn()
	noToken.AccessToken = ""
	noUser := signedIn()
	noUser.User = nil

	for name, resp := range map[string]domain.AuthResponse{"no token": noToken, "no user": noUser} {
		t.Run(name, func(t *testing.T) {
			store := repository.NewMemoryStore()
			svc := NewAuthService(&MockAPI{AuthResponse: resp}, store, zap.NewNop())

			_, err := svc.Login(context.Background(), "ana@example.com", "secret")
			assert.ErrorIs(t, err, ErrInvalidAuthResult)
			assert.Empty(t, store.Data)
		})
	}
}

func TestLogin_Validation(t *testing.T) {
	svc := NewAuthService(&MockAPI{AuthResponse: signedIn()}, repository.NewMemoryStore(), zap.NewNop())
	_, err := svc.Login(context.Background(), " ", "secret")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLogin_StoreFailureLeavesNoSession(t *testing.T) {
	store := repository.NewMockStore()
	store.ForceSetError = true
	svc := NewAuthService(&MockAPI{AuthResponse: signedIn()}, store, zap.NewNop())

	_, err := svc.Login(context.Background(), "ana@example.com", "secret")
	assert.ErrorIs(t, err, ErrStorage)
	assert.Empty(t, store.Data)
}

func TestLogout_ClearsSessionEvenWhenServerFails(t *testing.T) {
	store := repository.NewMemoryStore()
	mockAPI := &MockAPI{AuthResponse: signedIn()}
	svc := NewAuthService(mockAPI, store, zap.NewNop())
	_, err := svc.Login(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)

	mockAPI.Err = errors.New("server down")
	require.NoError(t, svc.Logout(context.Background()))

	assert.Equal(t, 1, mockAPI.LogoutCalls)
	assert.Empty(t, store.Data)
	assert.False(t, svc.IsAuthenticated())
}

func TestRefresh(t *testing.T) {
	store := repository.NewMemoryStore()
	mockAPI := &MockAPI{AuthResponse: signedIn()}
	svc := NewAuthService(mockAPI, store, zap.NewNop())

	assert.ErrorIs(t, svc.Refresh(context.Background()), ErrNotAuthenticated)

	_, err := svc.Login(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)

	mockAPI.AuthResponse = domain.AuthResponse{AccessToken: "access-2"}
	require.NoError(t, svc.Refresh(context.Background()))

	assert.Equal(t, "refresh-1", mockAPI.RefreshToken)
	assert.Equal(t, `"access-2"`, store.Data[repository.KeyAccessToken])
	assert.Equal(t, `"refresh-1"`, store.Data[repository.KeyRefreshToken])
}

func TestCurrentUser_CorruptUserEndsSession(t *testing.T) {
	store := repository.NewMemoryStore()
	store.Data[repository.KeyAccessToken] = `"access-1"`
	store.Data[repository.KeyUser] = `{not json`
	svc := NewAuthService(&MockAPI{}, store, zap.NewNop())

	user, err := svc.CurrentUser()
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Empty(t, store.Data)
}

func TestCurrentUser_StoreFailure(t *testing.T) {
	store := repository.NewMockStore()
	store.ForceGetError = true
	svc := NewAuthService(&MockAPI{}, store, zap.NewNop())

	_, err := svc.CurrentUser()
	assert.ErrorIs(t, err, ErrStorage)
	assert.False(t, svc.IsAuthenticated())
}

func TestUpdatePreferences_RequiresObject(t *testing.T) {
	mockAPI := &MockAPI{}
	svc := NewAuthService(mockAPI, repository.NewMemoryStore(), zap.NewNop())

	for _, raw := range []string{`[1,2]`, `null`, `"dark"`, `{oops`} {
		_, err := svc.UpdatePreferences(context.Background(), json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrInvalidInput, raw)
	}

	out, err := svc.UpdatePreferences(context.Background(), json.RawMessage(`{"theme":"dark"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark"}`, string(out))
}

func TestSignup(t *testing.T) {
	svc := NewAuthService(&MockAPI{}, repository.NewMemoryStore(), zap.NewNop())

	_, err := svc.Signup(context.Background(), "", "ana@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidInput)

	user, err := svc.Signup(context.Background(), "Ana", "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
}
