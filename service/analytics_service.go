package service

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"go.uber.org/zap"

	"pc-recommender/domain"
	"pc-recommender/repository"
)

// AnalyticsService records usage events for the current session and ships
// them to the API from a background worker. Events that fail to send are
// queued in the store. Close must be called to drain the worker.
type AnalyticsService struct {
	mu        sync.Mutex
	api       AnalyticsAPI
	store     repository.Store
	logger    *zap.Logger
	now       func() time.Time
	sessionID string
	enabled   bool
	events    []domain.AnalyticsEvent

	// sendMu guards closed and every send on jobs.
	sendMu    sync.RWMutex
	closed    bool
	jobs      chan analyticsJob
	startOnce sync.Once
	stopped   chan struct{}
	abortCtx  context.Context
	abort     context.CancelFunc
}

// analyticsJob is either an event to send or, when flushed is set, a marker
// the worker closes once everything queued before it has been handled.
type analyticsJob struct {
	ctx     context.Context
	event   domain.AnalyticsEvent
	flushed chan struct{}
}

func NewAnalyticsService(
	api AnalyticsAPI,
	store repository.Store,
	logger *zap.Logger,
	now func() time.Time,
) *AnalyticsService {
	if now == nil {
		now = time.Now
	}
	abortCtx, abort := context.WithCancel(context.Background())
	s := &AnalyticsService{
		api:       api,
		store:     store,
		logger:    logger,
		now:       now,
		sessionID: NewSessionID(),
		jobs:      make(chan analyticsJob, AnalyticsQueueSize),
		stopped:   make(chan struct{}),
		abortCtx:  abortCtx,
		abort:     abort,
	}
	s.enabled = s.readConsent()
	return s
}

// readConsent treats anything but an explicit false as consent.
func (s *AnalyticsService) readConsent() bool {
	var consent bool
	ok, err := repository.ReadJSON(s.store, repository.KeyAnalyticsConsent, &consent)
	if err != nil {
		s.logger.Warn("failed to read analytics consent", zap.Error(err))
		return true
	}
	return !ok || consent
}

func (s *AnalyticsService) SessionID() string {
	return s.sessionID
}

func (s *AnalyticsService) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

func (s *AnalyticsService) Enable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = true
	return s.writeConsent(true)
}

// Disable opts out and drops events buffered for this session, including
// those still waiting to be sent.
func (s *AnalyticsService) Disable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = false
	s.events = nil
	return s.writeConsent(false)
}

func (s *AnalyticsService) writeConsent(v bool) error {
	if err := repository.WriteJSON(s.store, repository.KeyAnalyticsConsent, v); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// Track records an event and hands it to the send worker without waiting
// for the API. Sending failures never reach the caller; the event is queued
// for RetryStored instead.
func (s *AnalyticsService) Track(ctx context.Context, name string, props map[string]any) {
	s.mu.Lock()
	if !s.enabled {
		s.mu.Unlock()
		return
	}
	properties := make(map[string]any, len(props)+2)
	maps.Copy(properties, props)
	properties["timestamp"] = s.now().UTC().Format(time.RFC3339Nano)
	properties["sessionId"] = s.sessionID

	event := domain.AnalyticsEvent{EventName: name, Properties: properties}
	s.events = append(s.events, event)
	if len(s.events) > MaxStoredAnalyticsEvents {
		s.events = s.events[len(s.events)-MaxStoredAnalyticsEvents:]
	}
	s.mu.Unlock()

	s.logger.Debug("Analytics Event", zap.String("event", name))
	if !s.enqueue(analyticsJob{ctx: context.WithoutCancel(ctx), event: event}) {
		s.logger.Warn("analytics send queue unavailable", zap.String("event", name))
		s.storeForRetry(event)
	}
}

// enqueue never blocks. It reports false when the queue is full or closed.
func (s *AnalyticsService) enqueue(job analyticsJob) bool {
	s.sendMu.RLock()
	defer s.sendMu.RUnlock()
	if s.closed {
		return false
	}
	s.startOnce.Do(func() { go s.run() })

	select {
	case s.jobs <- job:
		return true
	default:
		return false
	}
}

func (s *AnalyticsService) run() {
	defer close(s.stopped)
	for job := range s.jobs {
		if job.flushed != nil {
			close(job.flushed)
			continue
		}
		if !s.Enabled() {
			continue
		}
		ctx, cancel := context.WithTimeout(job.ctx, analyticsSendTimeout)
		stop := context.AfterFunc(s.abortCtx, cancel)
		s.send(ctx, job.event)
		stop()
		cancel()
	}
}

// Flush waits until every event tracked before the call has been sent or
// queued for retry.
func (s *AnalyticsService) Flush(ctx context.Context) error {
	flushed := make(chan struct{})

	s.sendMu.RLock()
	if s.closed {
		s.sendMu.RUnlock()
		return nil
	}
	s.startOnce.Do(func() { go s.run() })
	select {
	case s.jobs <- analyticsJob{flushed: flushed}:
	case <-ctx.Done():
		s.sendMu.RUnlock()
		return ctx.Err()
	}
	s.sendMu.RUnlock()

	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the send worker after it drains the queue. Sends still in
// flight after analyticsDrainTimeout are cancelled and their events kept
// for RetryStored. Events tracked after Close go straight to that queue.
func (s *AnalyticsService) Close() error {
	s.sendMu.Lock()
	if s.closed {
		s.sendMu.Unlock()
		return nil
	}
	s.closed = true
	close(s.jobs)
	s.startOnce.Do(func() { close(s.stopped) })
	s.sendMu.Unlock()

	timer := time.NewTimer(analyticsDrainTimeout)
	defer timer.Stop()
	select {
	case <-s.stopped:
	case <-timer.C:
		s.logger.Warn("analytics drain timed out, keeping remaining events for retry")
		s.abort()
		<-s.stopped
	}
	s.abort()
	return nil
}

func (s *AnalyticsService) send(ctx context.Context, event domain.AnalyticsEvent) bool {
	if err := s.api.SendAnalyticsEvent(ctx, event); err != nil {
		s.logger.Warn("Analytics error", zap.String("event", event.EventName), zap.Error(err))
		s.storeForRetry(event)
		return false
	}
	return true
}

func (s *AnalyticsService) storeForRetry(event domain.AnalyticsEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var queue []domain.AnalyticsEvent
	if _, err := repository.ReadJSON(s.store, repository.KeyRetryAnalyticsEvents, &queue); err != nil {
		s.logger.Warn("dropping unreadable analytics retry queue", zap.Error(err))
		queue = nil
	}
	queue = append(queue, event)
	if err := repository.WriteJSON(s.store, repository.KeyRetryAnalyticsEvents, queue); err != nil {
		s.logger.Error("failed to queue analytics event", zap.Error(err))
	}
}

// RetryStored resends queued events and reports how many went through.
// Events that fail again are queued again.
func (s *AnalyticsService) RetryStored(ctx context.Context) (int, error) {
	s.mu.Lock()
	var queue []domain.AnalyticsEvent
	_, err := repository.ReadJSON(s.store, repository.KeyRetryAnalyticsEvents, &queue)
	if err == nil {
		err = s.store.Delete(repository.KeyRetryAnalyticsEvents)
	}
	s.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	sent := 0
	for _, event := range queue {
		if s.send(ctx, event) {
			sent++
		}
	}
	return sent, nil
}

func (s *AnalyticsService) TrackPageView(ctx context.Context, page string) {
	s.Track(ctx, "page_view", map[string]any{"page": page})
}

func (s *AnalyticsService) TrackRecommendationViewed(ctx context.Context, recommendationID string) {
	s.Track(ctx, "recommendation_viewed", map[string]any{"recommendationId": recommendationID})
}

func (s *AnalyticsService) TrackComparisonAdded(ctx context.Context, configurationID string) {
	s.Track(ctx, "comparison_added", map[string]any{"recommendationId": configurationID})
}

func (s *AnalyticsService) TrackFeedbackSubmitted(ctx context.Context, fb domain.Feedback) {
	props := map[string]any{
		"recommendationId": fb.RecommendationID,
		"helpful":          fb.Helpful,
		"hasComments":      fb.Comments != "",
	}
	if fb.Rating != nil {
		props["rating"] = *fb.Rating
	}
	s.Track(ctx, "feedback_submitted", props)
}

func (s *AnalyticsService) TrackError(ctx context.Context, err error, where string) {
	s.Track(ctx, "error_occurred", map[string]any{"error": err.Error(), "context": where})
}

// Events returns a copy of the buffered events.
func (s *AnalyticsService) Events() []domain.AnalyticsEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AnalyticsEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *AnalyticsService) Summary() domain.AnalyticsSummary {
	events := s.Events()
	summary := domain.AnalyticsSummary{
		SessionID:   s.sessionID,
		TotalEvents: len(events),
		EventTypes:  map[string]int{},
	}
	for _, e := range events {
		summary.EventTypes[e.EventName]++
	}
	if len(events) > 0 {
		summary.StartTime, _ = events[0].Properties["timestamp"].(string)
		summary.LastActivity, _ = events[len(events)-1].Properties["timestamp"].(string)
	}
	return summary
}
