package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"pc-recommender/api"
	"pc-recommender/service"
)

type errorResponse struct {
	Error  string   `json:"error"`
	Code   string   `json:"code,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// writeJSON encodes v into a buffer first so a failed encode never leaves a
// half-written 200 behind.
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Error("Error encoding response", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("Error writing response", zap.Error(err))
	}
}

// statusFor maps service and API errors to the HTTP status a caller of the
// local server sees.
func statusFor(err error) int {
	var verr *service.ValidationError
	var netErr *api.NetworkError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDuplicateEntry), errors.Is(err, service.ErrCapacityExceeded):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrStorage):
		return http.StatusInternalServerError
	case api.StatusCode(err) != 0:
		return api.StatusCode(err)
	case errors.As(err, &netErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: api.Message(err), Code: service.ErrorCode(err)}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		resp.Error = "validation failed"
		resp.Errors = verr.Errors
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, logger, status, resp)
}

const maxRequestBody = 1 << 20

// decodeJSON reads a JSON request body into v. It writes the error response
// itself and reports whether the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v any) bool {
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		writeJSON(w, logger, http.StatusUnsupportedMediaType, errorResponse{
			Error: "Content-Type must be application/json",
		})
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Debug("Error decoding request body", zap.Error(err))
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, logger, http.StatusRequestEntityTooLarge, errorResponse{
				Error: "request body too large",
				Code:  service.ErrorCode(service.ErrInvalidInput),
			})
			return false
		}
		writeJSON(w, logger, http.StatusBadRequest, errorResponse{
			Error: "invalid request body",
			Code:  service.ErrorCode(service.ErrInvalidInput),
		})
		return false
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
