package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pc-recommender/api"
	"pc-recommender/domain"
	"pc-recommender/repository"
	"pc-recommender/service"
)

const validRequirements = `{
	"purpose": "gaming",
	"budget": {"min": 800, "max": 1500},
	"performance_level": "high"
}`

func TestRecommendationHandler_OK(t *testing.T) {
	s := newTestServer(t)
	s.api.resp = domain.RecommendationResponse{
		Recommendations: []domain.PCConfiguration{{ConfigurationID: "r1", TotalPrice: 1200}},
	}

	w := s.do(http.MethodPost, "/recommendations", validRequirements)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[domain.RecommendationResponse](t, w)
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "r1", resp.Recommendations[0].ConfigurationID)
	assert.Equal(t, 1, s.api.calls)
}

// stalledAnalyticsAPI holds every event until release is closed.
type stalledAnalyticsAPI struct {
	release chan struct{}
	mu      sync.Mutex
	events  []domain.AnalyticsEvent
}

func (a *stalledAnalyticsAPI) SendAnalyticsEvent(ctx context.Context, event domain.AnalyticsEvent) error {
	select {
	case <-a.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
	return nil
}

func TestRecommendationHandler_DoesNotWaitForAnalytics(t *testing.T) {
	fake := &fakeRecommendationAPI{}
	for _, id := range []string{"r1", "r2", "r3", "r4", "r5"} {
		fake.resp.Recommendations = append(fake.resp.Recommendations, domain.PCConfiguration{ConfigurationID: id})
	}
	analyticsAPI := &stalledAnalyticsAPI{release: make(chan struct{})}
	analytics := service.NewAnalyticsService(analyticsAPI, repository.NewMemoryStore(), zap.NewNop(), nil)
	limiter := NewRateLimiter(10, time.Minute)
	defer limiter.Stop()

	handler := NewRouter(Services{
		Comparison:      service.NewComparisonService(repository.NewMockStore(), zap.NewNop()),
		Recommendations: service.NewRecommendationService(fake, repository.NewRecommendationRepositoryMemory(), zap.NewNop()),
		Analytics:       analytics,
	}, limiter, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/recommendations", strings.NewReader(validRequirements))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(w, req)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		close(analyticsAPI.release)
		<-done
		require.NoError(t, analytics.Close())
		t.Fatal("recommend response waited on the analytics API")
	}
	assert.Equal(t, http.StatusOK, w.Code)

	close(analyticsAPI.release)
	require.NoError(t, analytics.Close())
	analyticsAPI.mu.Lock()
	defer analyticsAPI.mu.Unlock()
	assert.Len(t, analyticsAPI.events, 5)
}

func TestRecommendationHandler_ValidationFailure(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/recommendations", `{"budget": {"min": 500, "max": 100}}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[errorResponse](t, w)
	assert.Equal(t, "invalid_input", body.Code)
	assert.Equal(t, []string{
		"Purpose is required",
		"Valid maximum budget is required and must be greater than minimum",
		"Performance level is required",
	}, body.Errors)
	assert.Equal(t, 0, s.api.calls)
}

func TestRecommendationHandler_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "api error keeps status",
			err:     &api.Error{StatusCode: http.StatusServiceUnavailable, Message: "Backend asleep"},
			status:  http.StatusServiceUnavailable,
			message: "Backend asleep",
		},
		{
			name:    "network error",
			err:     &api.NetworkError{Method: http.MethodPost, Path: "/recommendations", Err: errors.New("connection refused")},
			status:  http.StatusBadGateway,
			message: "Network error - please check your connection",
		},
		{
			name:    "timeout",
			err:     &api.NetworkError{Method: http.MethodPost, Path: "/recommendations", Err: &net.DNSError{IsTimeout: true}},
			status:  http.StatusBadGateway,
			message: "Request timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.api.err = tt.err

			w := s.do(http.MethodPost, "/recommendations", validRequirements)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decode[errorResponse](t, w).Error)
		})
	}
}

func TestRecommendationHandler_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/recommendations", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestServer_ServeAndShutdown(t *testing.T) {
	s := newTestServer(t)
	srv := &Server{
		server:  &http.Server{Handler: s.handler},
		limiter: NewRateLimiter(10, time.Minute),
		logger:  zap.NewNop(),
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	client.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout):
		t.Fatal("server did not shut down")
	}
}
