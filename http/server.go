package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"pc-recommender/service"
)

const shutdownTimeout = 10 * time.Second

// Services are the dependencies the routes need.
type Services struct {
	Comparison      *service.ComparisonService
	Recommendations *service.RecommendationService
	Analytics       *service.AnalyticsService
}

// NewRouter registers every route behind the rate limiter.
func NewRouter(svc Services, limiter *RateLimiter, logger *zap.Logger) http.Handler {
	comparison := NewComparisonHandler(svc.Comparison, logger.Named("comparison"))
	recommendations := NewRecommendationHandler(svc.Recommendations, svc.Analytics, logger.Named("recommendations"))

	routes := map[string]http.HandlerFunc{
		"/comparison":             comparison.Collection,
		"/comparison/items/{id}":  comparison.Item,
		"/comparison/stats":       comparison.Stats,
		"/comparison/sorted":      comparison.Sorted,
		"/comparison/export":      comparison.Export,
		"/comparison/import":      comparison.Import,
		"/comparison/suggestions": comparison.Suggestions,
		"/recommendations":        recommendations.Recommend,
	}

	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.Handle(pattern, RateLimitMiddleware(limiter, logger, handler))
	}
	mux.HandleFunc("/healthz", Health)
	return mux
}

// Server is the local HTTP surface over the comparison and recommendation
// services.
type Server struct {
	server    *http.Server
	limiter   *RateLimiter
	analytics *service.AnalyticsService
	logger    *zap.Logger
}

func NewServer(addr string, svc Services, rateLimit int, rateWindow time.Duration, logger *zap.Logger) *Server {
	limiter := NewRateLimiter(rateLimit, rateWindow)
	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      NewRouter(svc, limiter, logger),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		limiter:   limiter,
		analytics: svc.Analytics,
		logger:    logger,
	}
}

// ListenAndServe listens on the configured address and serves until ctx
// is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		s.limiter.Stop()
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.limiter.Stop()

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("API running", zap.String("addr", ln.Addr().String()))
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Error during server shutdown", zap.Error(err))
		return err
	}
	<-serverErr

	if s.analytics != nil {
		if err := s.analytics.Flush(shutdownCtx); err != nil {
			s.logger.Warn("analytics events still pending at shutdown", zap.Error(err))
		}
	}

	s.logger.Info("Server exited")
	return nil
}
