package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{
			name:   "string detail",
			status: http.StatusBadRequest,
			body:   `{"detail": "Email already registered"}`,
			want:   "Email already registered",
		},
		{
			name:   "detail list of objects",
			status: http.StatusUnprocessableEntity,
			body:   `{"detail": [{"msg": "field required"}, {"message": "too short"}]}`,
			want:   "field required; too short",
		},
		{
			name:   "detail list of strings and unknown objects",
			status: http.StatusUnprocessableEntity,
			body:   `{"detail": ["bad budget", {"loc": ["body"]}]}`,
			want:   `bad budget; {"loc": ["body"]}`,
		},
		{
			name:   "envelope details on 422",
			status: http.StatusUnprocessableEntity,
			body:   `{"error": {"message": "Validation failed", "details": [{"detail": "min must be positive"}, "max missing"]}}`,
			want:   "min must be positive; max missing",
		},
		{
			name:   "envelope details ignored outside 422",
			status: http.StatusBadRequest,
			body:   `{"error": {"message": "Validation failed", "details": ["max missing"]}}`,
			want:   "Validation failed",
		},
		{
			name:   "envelope message",
			status: http.StatusInternalServerError,
			body:   `{"error": {"message": "Recommendation engine unavailable"}}`,
			want:   "Recommendation engine unavailable",
		},
		{
			name:   "plain message",
			status: http.StatusNotFound,
			body:   `{"message": "Not found"}`,
			want:   "Not found",
		},
		{
			name:   "detail wins over message",
			status: http.StatusBadRequest,
			body:   `{"detail": "first", "message": "second"}`,
			want:   "first",
		},
		{
			name:   "envelope message wins over plain message",
			status: http.StatusBadRequest,
			body:   `{"error": {"message": "first"}, "message": "second"}`,
			want:   "first",
		},
		{
			name:   "null detail falls through",
			status: http.StatusBadRequest,
			body:   `{"detail": null, "message": "fallback"}`,
			want:   "fallback",
		},
		{
			name:   "unknown shape",
			status: http.StatusBadRequest,
			body:   `{"code": 42}`,
			want:   "Unknown error",
		},
		{
			name:   "not json",
			status: http.StatusBadGateway,
			body:   `<html>Bad Gateway</html>`,
			want:   "Unknown error",
		},
		{
			name:   "empty body",
			status: http.StatusInternalServerError,
			body:   ``,
			want:   "Unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMessage(tt.status, []byte(tt.body)))
		})
	}
}

func TestMessageAndStatusCode(t *testing.T) {
	apiErr := &Error{StatusCode: http.StatusConflict, Message: "already exists"}
	assert.Equal(t, "already exists", Message(apiErr))
	assert.Equal(t, http.StatusConflict, StatusCode(apiErr))

	netErr := &NetworkError{Method: "GET", Path: "/health", Err: errors.New("connection refused")}
	assert.Equal(t, "Network error - please check your connection", Message(netErr))
	assert.Equal(t, 0, StatusCode(netErr))
	assert.ErrorContains(t, netErr, "GET /health")

	assert.Equal(t, "", Message(nil))
}
