package service

import (
	"fmt"

	"go.uber.org/zap"

	"pc-recommender/domain"
	"pc-recommender/repository"
)

type ThemeService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewThemeService(store repository.Store, logger *zap.Logger) *ThemeService {
	return &ThemeService{store: store, logger: logger}
}

// Mode returns the saved theme, light when nothing valid is saved.
func (s *ThemeService) Mode() domain.ThemeMode {
	var mode domain.ThemeMode
	if _, err := repository.ReadJSON(s.store, repository.KeyThemeMode, &mode); err != nil {
		s.logger.Warn("failed to read theme mode", zap.Error(err))
		return domain.ThemeLight
	}
	if mode != domain.ThemeDark {
		return domain.ThemeLight
	}
	return mode
}

func (s *ThemeService) SetMode(mode domain.ThemeMode) error {
	if mode != domain.ThemeLight && mode != domain.ThemeDark {
		return fmt.Errorf("%w: theme must be light or dark", ErrInvalidInput)
	}
	if err := repository.WriteJSON(s.store, repository.KeyThemeMode, mode); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

func (s *ThemeService) Toggle() (domain.ThemeMode, error) {
	next := domain.ThemeDark
	if s.Mode() == domain.ThemeDark {
		next = domain.ThemeLight
	}
	if err := s.SetMode(next); err != nil {
		return s.Mode(), err
	}
	return next, nil
}
