package icebergapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// ErrUnavailable wraps circuit breaker rejections.
var ErrUnavailable = errors.New("iceberg api unavailable")

// ErrTransport wraps failures to reach the API or to read its reply.
var ErrTransport = errors.New("iceberg api unreachable")

// APIError is a non-2xx reply from the iceberg API.
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("iceberg api: status %d: %s", e.Status, e.Message)
}

// messageKeys are tried in order; the backend is not consistent about which one it uses.
var messageKeys = []string{"error", "msg", "message", "Error", "Message"}

func newAPIError(status int, body []byte) *APIError {
	msg := extractMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("request failed with status code %d", status)
	}
	return &APIError{Status: status, Message: msg, Body: body}
}

// extractMessage returns the first non-empty message field of a JSON object body.
func extractMessage(body []byte) string {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	for _, k := range messageKeys {
		if s, ok := fields[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// Message returns the best human-readable text for err: the backend's own message
// when there is one, otherwise the error text itself.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// StatusCode returns the upstream status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
