package repository

import "pc-recommender/domain"

// SavedRecommendations pairs a submitted request with the response the
// API returned for it.
type SavedRecommendations struct {
	Request  domain.RecommendationRequest  `json:"request"`
	Response domain.RecommendationResponse `json:"response"`
}

type RecommendationRepository interface {
	Save(req domain.RecommendationRequest, resp domain.RecommendationResponse) error
	Last() (SavedRecommendations, bool, error)
}
