package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pc-recommender/domain"
	"pc-recommender/repository"
)

// maxDetailFetches bounds concurrent detail requests.
const maxDetailFetches = 4

type RecommendationService struct {
	api    RecommendationAPI
	repo   repository.RecommendationRepository
	logger *zap.Logger
}

func NewRecommendationService(
	api RecommendationAPI,
	repo repository.RecommendationRepository,
	logger *zap.Logger,
) *RecommendationService {
	return &RecommendationService{api: api, repo: repo, logger: logger}
}

// GetRecommendations validates req and, when valid, asks the API for
// builds. An invalid request returns a *ValidationError without any I/O.
func (s *RecommendationService) GetRecommendations(
	ctx context.Context,
	req domain.RecommendationRequest,
) (domain.RecommendationResponse, error) {
	if v := ValidateRequirements(req); !v.IsValid {
		return domain.RecommendationResponse{}, &ValidationError{Errors: v.Errors}
	}

	resp, err := s.api.CreateRecommendations(ctx, req)
	if err != nil {
		s.logger.Error("Error getting recommendations", zap.Error(err))
		return domain.RecommendationResponse{}, fmt.Errorf("get recommendations: %w", err)
	}

	// Keeping the last response lets later commands pick builds from it.
	if err := s.repo.Save(req, resp); err != nil {
		s.logger.Warn("failed to save recommendations", zap.Error(err))
	}

	return resp, nil
}

// LastRecommendations returns the most recent successful response.
func (s *RecommendationService) LastRecommendations() (repository.SavedRecommendations, bool, error) {
	return s.repo.Last()
}

// PickFromLast returns the configuration at the 1-based position in the
// last response.
func (s *RecommendationService) PickFromLast(position int) (domain.PCConfiguration, error) {
	saved, ok, err := s.repo.Last()
	if err != nil {
		return domain.PCConfiguration{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if !ok {
		return domain.PCConfiguration{}, fmt.Errorf("%w: no saved recommendations", ErrNotFound)
	}
	recs := saved.Response.Recommendations
	if position < 1 || position > len(recs) {
		return domain.PCConfiguration{}, fmt.Errorf(
			"%w: position %d outside 1..%d", ErrInvalidInput, position, len(recs))
	}
	return recs[position-1], nil
}

func (s *RecommendationService) GetRecommendationDetails(ctx context.Context, id string) (json.RawMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: recommendation id is required", ErrInvalidInput)
	}
	details, err := s.api.GetRecommendation(ctx, id)
	if err != nil {
		s.logger.Error("Error getting recommendation details", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("get recommendation %s: %w", id, err)
	}
	return details, nil
}

// GetManyRecommendationDetails fetches several recommendations in parallel.
// Results keep the order of ids; the first failure cancels the rest.
func (s *RecommendationService) GetManyRecommendationDetails(
	ctx context.Context,
	ids []string,
) ([]json.RawMessage, error) {
	results := make([]json.RawMessage, len(ids))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxDetailFetches)
	for i, id := range ids {
		eg.Go(func() error {
			details, err := s.GetRecommendationDetails(egCtx, id)
			if err != nil {
				return err
			}
			results[i] = details
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *RecommendationService) SubmitFeedback(ctx context.Context, fb domain.Feedback) (json.RawMessage, error) {
	if fb.RecommendationID == "" {
		return nil, fmt.Errorf("%w: recommendation id is required", ErrInvalidInput)
	}
	if fb.Rating != nil && (*fb.Rating < MinFeedbackRating || *fb.Rating > MaxFeedbackRating) {
		return nil, fmt.Errorf("%w: rating must be between %d and %d",
			ErrInvalidInput, MinFeedbackRating, MaxFeedbackRating)
	}
	out, err := s.api.SubmitFeedback(ctx, fb)
	if err != nil {
		s.logger.Error("Error submitting feedback", zap.Error(err))
		return nil, fmt.Errorf("submit feedback: %w", err)
	}
	return out, nil
}

func (s *RecommendationService) GetComponents(ctx context.Context, filter domain.ComponentFilter) (json.RawMessage, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, fmt.Errorf("%w: min price is above max price", ErrInvalidInput)
	}
	if filter.Page < 0 || filter.PageSize < 0 {
		return nil, fmt.Errorf("%w: page and page size must not be negative", ErrInvalidInput)
	}
	out, err := s.api.ListComponents(ctx, filter)
	if err != nil {
		s.logger.Error("Error getting components", zap.Error(err))
		return nil, fmt.Errorf("list components: %w", err)
	}
	return out, nil
}

func (s *RecommendationService) GetComponentDetails(ctx context.Context, id string) (json.RawMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: component id is required", ErrInvalidInput)
	}
	out, err := s.api.GetComponent(ctx, id)
	if err != nil {
		s.logger.Error("Error getting component details", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("get component %s: %w", id, err)
	}
	return out, nil
}
