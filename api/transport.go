package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"pc-recommender/repository"
)

// TokenSource supplies the bearer token for outgoing requests. An empty
// token means the request goes out unauthenticated.
type TokenSource interface {
	AccessToken() string
}

// StoreTokenSource reads the access token persisted by the auth flow.
type StoreTokenSource struct {
	store  repository.Store
	logger *zap.Logger
}

func NewStoreTokenSource(store repository.Store, logger *zap.Logger) *StoreTokenSource {
	return &StoreTokenSource{store: store, logger: logger}
}

func (s *StoreTokenSource) AccessToken() string {
	var token string
	_, err := repository.ReadJSON(s.store, repository.KeyAccessToken, &token)
	if err != nil {
		if errors.Is(err, repository.ErrCorrupt) {
			s.logger.Warn("ignoring malformed access token", zap.Error(err))
		} else {
			s.logger.Error("failed to read access token", zap.Error(err))
		}
		return ""
	}
	return token
}

// authTransport attaches the bearer token to every request.
type authTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.tokens.AccessToken()
	if token == "" {
		return t.base.RoundTrip(req)
	}
	// RoundTrippers must not modify the caller's request.
	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(authed)
}
