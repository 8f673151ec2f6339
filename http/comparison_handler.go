package http

import (
	"net/http"

	"go.uber.org/zap"

	"pc-recommender/domain"
	"pc-recommender/service"
)

type ComparisonHandler struct {
	service *service.ComparisonService
	logger  *zap.Logger
}

func NewComparisonHandler(service *service.ComparisonService, logger *zap.Logger) *ComparisonHandler {
	return &ComparisonHandler{service: service, logger: logger}
}

type comparisonList struct {
	Items    []domain.PCConfiguration `json:"items"`
	Count    int                      `json:"count"`
	MaxItems int                      `json:"max_items"`
}

type membership struct {
	ConfigurationID string `json:"configuration_id"`
	InComparison    bool   `json:"in_comparison"`
}

// Collection serves /comparison: GET lists, POST adds, DELETE clears.
func (h *ComparisonHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items := h.service.GetAll()
		writeJSON(w, h.logger, http.StatusOK, comparisonList{
			Items:    items,
			Count:    len(items),
			MaxItems: h.service.MaxItems(),
		})
	case http.MethodPost:
		var cfg domain.PCConfiguration
		if !decodeJSON(w, r, h.logger, &cfg) {
			return
		}
		h.writeResult(w, h.service.Add(cfg), http.StatusCreated)
	case http.MethodDelete:
		h.writeResult(w, h.service.Clear(), http.StatusOK)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

// Item serves /comparison/items/{id}: GET reports membership, DELETE removes.
func (h *ComparisonHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, h.logger, http.StatusOK, membership{
			ConfigurationID: id,
			InComparison:    h.service.Contains(id),
		})
	case http.MethodDelete:
		h.writeResult(w, h.service.Remove(id), http.StatusOK)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodDelete)
	}
}

func (h *ComparisonHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.service.Stats())
}

// Sorted returns the list ordered by the "by" query parameter.
func (h *ComparisonHandler) Sorted(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	criteria := domain.SortCriteria(r.URL.Query().Get("by"))
	if criteria == "" {
		criteria = domain.SortByPrice
	}

	items, err := h.service.SortByCriteria(criteria)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, comparisonList{
		Items:    items,
		Count:    len(items),
		MaxItems: h.service.MaxItems(),
	})
}

func (h *ComparisonHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="pc-comparison.json"`)
	writeJSON(w, h.logger, http.StatusOK, h.service.Export())
}

func (h *ComparisonHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var data domain.ComparisonExport
	if !decodeJSON(w, r, h.logger, &data) {
		return
	}
	h.writeResult(w, h.service.Import(data), http.StatusOK)
}

func (h *ComparisonHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.service.Suggestions())
}

// writeResult sends res with okStatus on success, or with the status that
// matches res.Err.
func (h *ComparisonHandler) writeResult(w http.ResponseWriter, res domain.ComparisonResult, okStatus int) {
	status := okStatus
	if !res.Success {
		status = statusFor(res.Err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("comparison update failed", zap.String("message", res.Message), zap.Error(res.Err))
		}
	}
	writeJSON(w, h.logger, status, res)
}
