package repository

import "pc-recommender/domain"

// RecommendationRepositoryMemory is an in-memory implementation of
// RecommendationRepository.
type RecommendationRepositoryMemory struct {
	data []SavedRecommendations
}

// NewRecommendationRepositoryMemory creates a new in-memory recommendation repository.
func NewRecommendationRepositoryMemory() *RecommendationRepositoryMemory {
	return &RecommendationRepositoryMemory{
		data: []SavedRecommendations{},
	}
}

// Save stores the response in memory.
func (r *RecommendationRepositoryMemory) Save(
	req domain.RecommendationRequest,
	resp domain.RecommendationResponse,
) error {
	r.data = append(r.data, SavedRecommendations{Request: req, Response: resp})
	return nil
}

// Last returns the most recently saved response.
func (r *RecommendationRepositoryMemory) Last() (SavedRecommendations, bool, error) {
	if len(r.data) == 0 {
		return SavedRecommendations{}, false, nil
	}
	return r.data[len(r.data)-1], true, nil
}
