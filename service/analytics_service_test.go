package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pc-recommender/domain"
	"pc-recommender/repository"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newAnalytics(t *testing.T, api AnalyticsAPI, store repository.Store) *AnalyticsService {
	t.Helper()
	svc := NewAnalyticsService(api, store, zap.NewNop(), func() time.Time { return fixedNow })
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func flush(t *testing.T, svc *AnalyticsService) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, svc.Flush(ctx))
}

func TestTrack_AddsSessionAndTimestamp(t *testing.T) {
	mockAPI := &MockAPI{}
	svc := newAnalytics(t, mockAPI, repository.NewMemoryStore())

	svc.TrackPageView(context.Background(), "home")
	flush(t, svc)

	require.Len(t, mockAPI.Events, 1)
	event := mockAPI.Events[0]
	assert.Equal(t, "page_view", event.EventName)
	assert.Equal(t, "home", event.Properties["page"])
	assert.Equal(t, svc.SessionID(), event.Properties["sessionId"])
	assert.Equal(t, "2024-03-01T12:00:00Z", event.Properties["timestamp"])
	assert.True(t, strings.HasPrefix(svc.SessionID(), SessionIDPrefix))
}

func TestTrack_DisabledRecordsNothing(t *testing.T) {
	mockAPI := &MockAPI{}
	store := repository.NewMemoryStore()
	svc := newAnalytics(t, mockAPI, store)

	require.NoError(t, svc.Disable())
	svc.TrackPageView(context.Background(), "home")
	flush(t, svc)

	assert.Empty(t, mockAPI.Events)
	assert.Empty(t, svc.Events())
	assert.False(t, newAnalytics(t, mockAPI, store).Enabled())

	require.NoError(t, svc.Enable())
	assert.True(t, newAnalytics(t, mockAPI, store).Enabled())
}

func TestTrack_KeepsLastEvents(t *testing.T) {
	svc := newAnalytics(t, &MockAPI{}, repository.NewMemoryStore())

	for i := range MaxStoredAnalyticsEvents + 5 {
		svc.Track(context.Background(), fmt.Sprintf("event_%d", i), nil)
	}

	events := svc.Events()
	require.Len(t, events, MaxStoredAnalyticsEvents)
	assert.Equal(t, "event_5", events[0].EventName)
}

func TestTrack_FailedSendIsQueuedAndRetried(t *testing.T) {
	mockAPI := &MockAPI{Err: errors.New("offline")}
	store := repository.NewMemoryStore()
	svc := newAnalytics(t, mockAPI, store)

	svc.TrackRecommendationViewed(context.Background(), "r1")
	svc.TrackComparisonAdded(context.Background(), "pc-1")
	flush(t, svc)

	var queued []domain.AnalyticsEvent
	_, err := repository.ReadJSON(store, repository.KeyRetryAnalyticsEvents, &queued)
	require.NoError(t, err)
	require.Len(t, queued, 2)
	assert.Equal(t, "recommendation_viewed", queued[0].EventName)

	mockAPI.Err = nil
	sent, err := svc.RetryStored(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Len(t, mockAPI.Events, 2)
	assert.NotContains(t, store.Data, repository.KeyRetryAnalyticsEvents)
}

func TestRetryStored_FailuresStayQueued(t *testing.T) {
	mockAPI := &MockAPI{Err: errors.New("offline")}
	store := repository.NewMemoryStore()
	svc := newAnalytics(t, mockAPI, store)

	svc.TrackPageView(context.Background(), "home")
	flush(t, svc)

	sent, err := svc.RetryStored(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	var queued []domain.AnalyticsEvent
	_, err = repository.ReadJSON(store, repository.KeyRetryAnalyticsEvents, &queued)
	require.NoError(t, err)
	assert.Len(t, queued, 1)
}

func TestTrack_DoesNotWaitForSend(t *testing.T) {
	mockAPI := &MockAPI{SendGate: make(chan struct{})}
	svc := newAnalytics(t, mockAPI, repository.NewMemoryStore())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range 5 {
			svc.TrackRecommendationViewed(context.Background(), fmt.Sprintf("r%d", i))
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Track blocked on the analytics API")
	}
	assert.Len(t, svc.Events(), 5)

	close(mockAPI.SendGate)
	flush(t, svc)
	assert.Len(t, mockAPI.Events, 5)
	assert.Equal(t, "r0", mockAPI.Events[0].Properties["recommendationId"])
}

func TestTrack_SurvivesCancelledCaller(t *testing.T) {
	mockAPI := &MockAPI{}
	svc := newAnalytics(t, mockAPI, repository.NewMemoryStore())

	ctx, cancel := context.WithCancel(context.Background())
	svc.TrackPageView(ctx, "home")
	cancel()
	flush(t, svc)

	assert.Len(t, mockAPI.Events, 1)
}

func TestFlush_HonoursContext(t *testing.T) {
	mockAPI := &MockAPI{SendGate: make(chan struct{})}
	svc := newAnalytics(t, mockAPI, repository.NewMemoryStore())
	defer close(mockAPI.SendGate)

	svc.TrackPageView(context.Background(), "home")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.Flush(ctx), context.DeadlineExceeded)
}

func TestClose_DrainsQueue(t *testing.T) {
	mockAPI := &MockAPI{}
	store := repository.NewMemoryStore()
	svc := NewAnalyticsService(mockAPI, store, zap.NewNop(), nil)

	svc.TrackPageView(context.Background(), "home")
	svc.TrackPageView(context.Background(), "compare")
	require.NoError(t, svc.Close())
	require.NoError(t, svc.Close())
	assert.Len(t, mockAPI.Events, 2)

	svc.TrackPageView(context.Background(), "late")

	var queued []domain.AnalyticsEvent
	_, err := repository.ReadJSON(store, repository.KeyRetryAnalyticsEvents, &queued)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, "late", queued[0].Properties["page"])
	assert.NoError(t, svc.Flush(context.Background()))
}

func TestClose_WithoutTrackingReturns(t *testing.T) {
	svc := NewAnalyticsService(&MockAPI{}, repository.NewMemoryStore(), zap.NewNop(), nil)
	assert.NoError(t, svc.Close())
}

func TestRetryStored_StoreFailure(t *testing.T) {
	store := repository.NewMockStore()
	svc := newAnalytics(t, &MockAPI{}, store)
	store.ForceGetError = true

	_, err := svc.RetryStored(context.Background())
	assert.ErrorIs(t, err, ErrStorage)
}

func TestSummary(t *testing.T) {
	svc := newAnalytics(t, &MockAPI{}, repository.NewMemoryStore())

	rating := 4
	svc.TrackPageView(context.Background(), "home")
	svc.TrackPageView(context.Background(), "compare")
	svc.TrackFeedbackSubmitted(context.Background(), domain.Feedback{RecommendationID: "r1", Helpful: true, Rating: &rating})
	svc.TrackError(context.Background(), errors.New("boom"), "compare")

	summary := svc.Summary()
	assert.Equal(t, svc.SessionID(), summary.SessionID)
	assert.Equal(t, 4, summary.TotalEvents)
	assert.Equal(t, map[string]int{"page_view": 2, "feedback_submitted": 1, "error_occurred": 1}, summary.EventTypes)
	assert.Equal(t, "2024-03-01T12:00:00Z", summary.StartTime)

	feedback := svc.Events()[2]
	assert.Equal(t, 4, feedback.Properties["rating"])
	assert.Equal(t, false, feedback.Properties["hasComments"])
}
