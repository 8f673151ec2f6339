package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://pc-recommendation-system-backend-e3u4.onrender.com/api/v1"
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 1 << 20
)

// Client talks to the recommendation REST API. It never retries; a failed
// or timed-out call is returned to the caller as an error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(
	baseURL string,
	timeout time.Duration,
	tokens TokenSource,
	logger *zap.Logger,
) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &authTransport{
				base:   http.DefaultTransport,
				tokens: tokens,
			},
		},
		logger: logger,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	in any,
	out any,
) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Network error - please check your connection",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &Error{
			StatusCode: resp.StatusCode,
			Message:    ExtractMessage(resp.StatusCode, raw),
		}
		c.logFailure(method, path, apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) logFailure(method, path string, err *Error) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", err.StatusCode),
		zap.String("message", err.Message),
	}
	switch err.StatusCode {
	case http.StatusNotFound:
		c.logger.Warn("Endpoint not found", fields...)
	case http.StatusUnauthorized:
		c.logger.Warn("Unauthorized access - verify token is present and valid", fields...)
	case http.StatusInternalServerError:
		c.logger.Error("Server error", fields...)
	default:
		c.logger.Warn("API error", fields...)
	}
}
