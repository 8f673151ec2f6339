package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

const unknownErrorMessage = "Unknown error"

// Error is a non-2xx response from the API, reduced to one readable message.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// NetworkError means no usable response arrived: connection failures,
// timeouts and cancellations.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request ran out of time.
func (e *NetworkError) Timeout() bool {
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// Message returns the text a user should see for err.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return "Request timed out"
		}
		return "Network error - please check your connection"
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

type errorBody map[string]json.RawMessage

// extractor pulls a message out of one known error shape.
type extractor func(status int, body errorBody) (string, bool)

// messageExtractors are tried in order; the first match wins.
var messageExtractors = []extractor{
	detailString,
	detailList,
	envelopeDetails,
	envelopeMessage,
	plainMessage,
}

// ExtractMessage reduces an error response body to a single message.
func ExtractMessage(status int, raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return unknownErrorMessage
	}
	for _, extract := range messageExtractors {
		if msg, ok := extract(status, body); ok {
			return msg
		}
	}
	return unknownErrorMessage
}

// {"detail": "..."}
func detailString(_ int, body errorBody) (string, bool) {
	var s *string
	if err := json.Unmarshal(body["detail"], &s); err != nil || s == nil {
		return "", false
	}
	return *s, true
}

// {"detail": [{"msg": "..."}, ...]}
func detailList(_ int, body errorBody) (string, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(body["detail"], &items); err != nil || items == nil {
		return "", false
	}
	return joinItems(items, "msg", "message"), true
}

// {"error": {"details": [...]}} on validation failures.
func envelopeDetails(status int, body errorBody) (string, bool) {
	if status != http.StatusUnprocessableEntity {
		return "", false
	}
	var envelope struct {
		Details []json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(body["error"], &envelope); err != nil || envelope.Details == nil {
		return "", false
	}
	return joinItems(envelope.Details, "msg", "message", "detail"), true
}

// {"error": {"message": "..."}}
func envelopeMessage(_ int, body errorBody) (string, bool) {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body["error"], &envelope); err != nil || envelope.Message == "" {
		return "", false
	}
	return envelope.Message, true
}

// {"message": "..."}
func plainMessage(_ int, body errorBody) (string, bool) {
	var s string
	if err := json.Unmarshal(body["message"], &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

func joinItems(items []json.RawMessage, fields ...string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, itemMessage(item, fields))
	}
	return strings.Join(parts, "; ")
}

func itemMessage(item json.RawMessage, fields []string) string {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(item, &obj); err == nil {
		for _, field := range fields {
			var v string
			if err := json.Unmarshal(obj[field], &v); err == nil && v != "" {
				return v
			}
		}
	}
	return string(item)
}
