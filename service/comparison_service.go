package service

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pc-recommender/domain"
	"pc-recommender/repository"
)

// ComparisonService owns the list of configurations the user flagged for
// side-by-side comparison. It is the only code that reads or writes the
// comparison key; every mutation is written through before it returns.
type ComparisonService struct {
	mu       sync.Mutex
	store    repository.Store
	logger   *zap.Logger
	maxItems int
	now      func() time.Time

	// last list successfully read from or written to the store
	items []domain.PCConfiguration
}

type ComparisonOption func(*ComparisonService)

func WithMaxItems(n int) ComparisonOption {
	return func(s *ComparisonService) {
		if n > 0 {
			s.maxItems = n
		}
	}
}

func WithClock(now func() time.Time) ComparisonOption {
	return func(s *ComparisonService) {
		s.now = now
	}
}

// NewComparisonService creates a ComparisonService backed by store.
func NewComparisonService(
	store repository.Store,
	logger *zap.Logger,
	opts ...ComparisonOption,
) *ComparisonService {
	s := &ComparisonService{
		store:    store,
		logger:   logger,
		maxItems: DefaultMaxComparisonItems,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ComparisonService) MaxItems() int {
	return s.maxItems
}

// GetAll returns the persisted list. Missing or corrupt data yields an
// empty list; an unreadable store yields the last known-good list.
func (s *ComparisonService) GetAll() []domain.PCConfiguration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add appends cfg to the list.
func (s *ComparisonService) Add(cfg domain.PCConfiguration) domain.ComparisonResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg.ConfigurationID == "" {
		return failed(ErrInvalidInput, "Invalid PC configuration", len(s.items))
	}

	current := s.load()

	if indexOf(current, cfg.ConfigurationID) >= 0 {
		return failed(ErrDuplicateEntry, "This PC is already in your comparison", len(current))
	}

	if len(current) >= s.maxItems {
		return failed(ErrCapacityExceeded, fmt.Sprintf(
			"You can compare up to %d PCs at once. Remove some to add more.", s.maxItems,
		), len(current))
	}

	updated := append(current, cfg)
	if err := s.save(updated); err != nil {
		return failed(err, "Could not save comparison", len(current))
	}

	return succeeded("PC added to comparison", len(updated))
}

// Remove drops the configuration with the given id, keeping the order of
// the remaining entries.
func (s *ComparisonService) Remove(configurationID string) domain.ComparisonResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load()
	idx := indexOf(current, configurationID)
	if idx < 0 {
		return failed(ErrNotFound, "PC not found in comparison", len(current))
	}

	updated := make([]domain.PCConfiguration, 0, len(current)-1)
	updated = append(updated, current[:idx]...)
	updated = append(updated, current[idx+1:]...)

	if err := s.save(updated); err != nil {
		return failed(err, "Could not save comparison", len(current))
	}

	return succeeded("PC removed from comparison", len(updated))
}

// Clear removes the persisted key itself rather than writing an empty list.
func (s *ComparisonService) Clear() domain.ComparisonResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(repository.KeyComparisonList); err != nil {
		s.logger.Error("failed to clear comparison list", zap.Error(err))
		return failed(fmt.Errorf("%w: %v", ErrStorage, err), "Could not clear comparison", len(s.items))
	}
	s.items = nil

	return succeeded("Comparison cleared", 0)
}

func (s *ComparisonService) Contains(configurationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.load(), configurationID) >= 0
}

// Stats summarizes the list. BestValue is the entry with the highest
// confidence per unit of price; the earliest entry wins a tie.
func (s *ComparisonService) Stats() domain.ComparisonStats {
	return statsOf(s.GetAll())
}

func statsOf(items []domain.PCConfiguration) domain.ComparisonStats {
	stats := domain.ComparisonStats{Count: len(items)}
	if len(items) == 0 {
		return stats
	}

	minPrice := decimal.NewFromFloat(items[0].TotalPrice)
	maxPrice := minPrice
	confidenceSum := 0.0
	best := items[0]

	for i, item := range items {
		price := decimal.NewFromFloat(item.TotalPrice)
		if price.LessThan(minPrice) {
			minPrice = price
		}
		if price.GreaterThan(maxPrice) {
			maxPrice = price
		}
		confidenceSum += item.ConfidenceScore
		if i > 0 && item.ValueRatio() > best.ValueRatio() {
			best = item
		}
	}

	stats.PriceRange = &domain.PriceRange{
		Min:        domain.NewAmount(minPrice),
		Max:        domain.NewAmount(maxPrice),
		Difference: domain.NewAmount(maxPrice.Sub(minPrice)),
	}
	stats.AvgConfidence = int(math.Round(confidenceSum / float64(len(items))))
	stats.BestValue = &best
	return stats
}

// SortByCriteria returns a sorted copy of the list; the stored order is
// left untouched.
func (s *ComparisonService) SortByCriteria(criteria domain.SortCriteria) ([]domain.PCConfiguration, error) {
	var less func(a, b domain.PCConfiguration) bool
	switch criteria {
	case domain.SortByPrice:
		less = func(a, b domain.PCConfiguration) bool { return a.TotalPrice < b.TotalPrice }
	case domain.SortByPerformance:
		less = func(a, b domain.PCConfiguration) bool { return a.OverallPerformance() > b.OverallPerformance() }
	case domain.SortByConfidence:
		less = func(a, b domain.PCConfiguration) bool { return a.ConfidenceScore > b.ConfidenceScore }
	case domain.SortByValue:
		less = func(a, b domain.PCConfiguration) bool { return a.ValueRatio() > b.ValueRatio() }
	default:
		return nil, fmt.Errorf("%w: unknown sort criteria %q", ErrInvalidInput, criteria)
	}

	items := s.GetAll()
	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
	return items, nil
}

// Export snapshots the list and its stats for sharing.
func (s *ComparisonService) Export() domain.ComparisonExport {
	items := s.GetAll()
	return domain.ComparisonExport{
		Items:      items,
		Stats:      statsOf(items),
		ExportedAt: s.now().UTC(),
		Version:    ExportVersion,
	}
}

// Import replaces the list with the exported items, keeping at most
// MaxItems distinct entries.
func (s *ComparisonService) Import(data domain.ComparisonExport) domain.ComparisonResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data.Items == nil {
		return failed(ErrInvalidInput, "Import failed: Invalid comparison data format", len(s.items))
	}
	for _, item := range data.Items {
		if item.ConfigurationID == "" || item.Name == "" || item.TotalPrice <= 0 {
			return failed(ErrInvalidInput, "Import failed: Invalid PC configuration data", len(s.items))
		}
	}

	items := s.normalize(data.Items)
	if err := s.save(items); err != nil {
		return failed(err, "Import failed: could not save comparison", len(s.items))
	}

	return succeeded(fmt.Sprintf("Imported %d PC configurations", len(items)), len(items))
}

// Suggestions hints at what to do next with the current list.
func (s *ComparisonService) Suggestions() []domain.Suggestion {
	items := s.GetAll()
	suggestions := []domain.Suggestion{}

	if len(items) == 1 {
		suggestions = append(suggestions, domain.Suggestion{
			Type:     "add_more",
			Message:  "Add more PCs to enable side-by-side comparison",
			Priority: "high",
		})
	}

	if len(items) >= 2 {
		minPrice, maxPrice := items[0].TotalPrice, items[0].TotalPrice
		minPerf, maxPerf := items[0].OverallPerformance(), items[0].OverallPerformance()
		for _, item := range items[1:] {
			minPrice = math.Min(minPrice, item.TotalPrice)
			maxPrice = math.Max(maxPrice, item.TotalPrice)
			perf := item.OverallPerformance()
			minPerf = math.Min(minPerf, perf)
			maxPerf = math.Max(maxPerf, perf)
		}

		if maxPrice-minPrice > SuggestPriceSpread {
			suggestions = append(suggestions, domain.Suggestion{
				Type:     "consider_value",
				Message:  "Large price differences detected. Consider value (performance per dollar)",
				Priority: "medium",
			})
		}
		if maxPerf-minPerf > SuggestPerformanceSpread {
			suggestions = append(suggestions, domain.Suggestion{
				Type:     "performance_gap",
				Message:  "Significant performance differences. Compare based on your specific needs.",
				Priority: "medium",
			})
		}
	}

	return suggestions
}

// MigrateLegacy moves a list left under the old pcComparison key to the
// canonical key. It does nothing when the canonical key already exists.
func (s *ComparisonService) MigrateLegacy() domain.ComparisonResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists, err := s.store.Get(repository.KeyComparisonList)
	if err != nil {
		s.logger.Error("failed to read comparison list", zap.Error(err))
		return failed(fmt.Errorf("%w: %v", ErrStorage, err), "Migration failed", len(s.items))
	}
	if exists {
		return succeeded("Nothing to migrate", len(s.load()))
	}

	var legacy []domain.PCConfiguration
	ok, err := repository.ReadJSON(s.store, repository.KeyLegacyComparison, &legacy)
	switch {
	case errors.Is(err, repository.ErrCorrupt):
		s.logger.Warn("discarding corrupt legacy comparison list", zap.Error(err))
		s.deleteLegacy()
		return succeeded("Nothing to migrate", 0)
	case err != nil:
		s.logger.Error("failed to read legacy comparison list", zap.Error(err))
		return failed(fmt.Errorf("%w: %v", ErrStorage, err), "Migration failed", len(s.items))
	case !ok:
		return succeeded("Nothing to migrate", 0)
	}

	kept := legacy[:0]
	for _, item := range legacy {
		if item.ConfigurationID != "" {
			kept = append(kept, item)
		}
	}
	items := s.normalize(kept)
	if err := s.save(items); err != nil {
		return failed(err, "Migration failed", 0)
	}
	s.deleteLegacy()

	s.logger.Info("migrated legacy comparison list", zap.Int("count", len(items)))
	return succeeded(fmt.Sprintf("Migrated %d PC configurations", len(items)), len(items))
}

func (s *ComparisonService) deleteLegacy() {
	if err := s.store.Delete(repository.KeyLegacyComparison); err != nil {
		s.logger.Warn("failed to delete legacy comparison key", zap.Error(err))
	}
}

// load must be called with mu held.
func (s *ComparisonService) load() []domain.PCConfiguration {
	var items []domain.PCConfiguration
	ok, err := repository.ReadJSON(s.store, repository.KeyComparisonList, &items)
	switch {
	case errors.Is(err, repository.ErrCorrupt):
		s.logger.Warn("resetting corrupt comparison list", zap.Error(err))
		if delErr := s.store.Delete(repository.KeyComparisonList); delErr != nil {
			s.logger.Error("failed to delete corrupt comparison list", zap.Error(delErr))
		}
		s.items = nil
		return []domain.PCConfiguration{}
	case err != nil:
		s.logger.Error("failed to read comparison list, using last known list", zap.Error(err))
		return clone(s.items)
	case !ok:
		s.items = nil
		return []domain.PCConfiguration{}
	}

	s.items = items
	return clone(items)
}

// save must be called with mu held. The in-memory list only changes when
// the write succeeds.
func (s *ComparisonService) save(items []domain.PCConfiguration) error {
	if err := repository.WriteJSON(s.store, repository.KeyComparisonList, items); err != nil {
		s.logger.Error("failed to save comparison list", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	s.items = clone(items)
	return nil
}

// normalize drops repeated ids and truncates to maxItems.
func (s *ComparisonService) normalize(items []domain.PCConfiguration) []domain.PCConfiguration {
	seen := make(map[string]bool, len(items))
	out := make([]domain.PCConfiguration, 0, min(len(items), s.maxItems))
	for _, item := range items {
		if seen[item.ConfigurationID] {
			continue
		}
		seen[item.ConfigurationID] = true
		out = append(out, item)
		if len(out) == s.maxItems {
			break
		}
	}
	return out
}

func indexOf(items []domain.PCConfiguration, configurationID string) int {
	for i, item := range items {
		if item.ConfigurationID == configurationID {
			return i
		}
	}
	return -1
}

func clone(items []domain.PCConfiguration) []domain.PCConfiguration {
	out := make([]domain.PCConfiguration, len(items))
	copy(out, items)
	return out
}

func succeeded(message string, count int) domain.ComparisonResult {
	return domain.ComparisonResult{Success: true, Message: message, Count: count}
}

func failed(err error, message string, count int) domain.ComparisonResult {
	return domain.ComparisonResult{
		Success: false,
		Message: message,
		Count:   count,
		Code:    ErrorCode(err),
		Err:     err,
	}
}
