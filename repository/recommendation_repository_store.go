package repository

import "pc-recommender/domain"

// RecommendationRepositoryStore keeps only the latest response, persisted
// in a Store so that a later invocation can pick builds from it.
type RecommendationRepositoryStore struct {
	store Store
}

func NewRecommendationRepositoryStore(store Store) *RecommendationRepositoryStore {
	return &RecommendationRepositoryStore{store: store}
}

func (r *RecommendationRepositoryStore) Save(
	req domain.RecommendationRequest,
	resp domain.RecommendationResponse,
) error {
	return WriteJSON(r.store, KeyLastRecommendations, SavedRecommendations{
		Request:  req,
		Response: resp,
	})
}

func (r *RecommendationRepositoryStore) Last() (SavedRecommendations, bool, error) {
	var saved SavedRecommendations
	ok, err := ReadJSON(r.store, KeyLastRecommendations, &saved)
	if err != nil || !ok {
		return SavedRecommendations{}, false, err
	}
	return saved, true, nil
}
