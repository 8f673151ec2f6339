package http

import (
	"net/http"

	"go.uber.org/zap"

	"pc-recommender/domain"
	"pc-recommender/service"
)

type RecommendationHandler struct {
	service   *service.RecommendationService
	analytics *service.AnalyticsService
	logger    *zap.Logger
}

// NewRecommendationHandler builds the handler. analytics may be nil.
func NewRecommendationHandler(
	service *service.RecommendationService,
	analytics *service.AnalyticsService,
	logger *zap.Logger,
) *RecommendationHandler {
	return &RecommendationHandler{service: service, analytics: analytics, logger: logger}
}

// Recommend validates the requirements and forwards them to the API. A
// missing session id is filled in so browser-less callers can omit it.
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req domain.RecommendationRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if req.SessionID == "" {
		req.SessionID = service.NewSessionID()
	}
	if req.PreferredBrands == nil {
		req.PreferredBrands = []string{}
	}
	if req.MustHaveFeatures == nil {
		req.MustHaveFeatures = []string{}
	}

	resp, err := h.service.GetRecommendations(r.Context(), req)
	if err != nil {
		if h.analytics != nil {
			h.analytics.TrackError(r.Context(), err, "recommendations")
		}
		writeError(w, h.logger, err)
		return
	}

	if h.analytics != nil {
		for _, rec := range resp.Recommendations {
			h.analytics.TrackRecommendationViewed(r.Context(), rec.ConfigurationID)
		}
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

func Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}
