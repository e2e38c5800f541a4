package creative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Sentinel errors for backend failures.
var (
	ErrMissingID          = errors.New("creative: identifier is required")
	ErrBackendUnreachable = errors.New("creative: backend unreachable")
	ErrBackendTimeout     = errors.New("creative: backend timeout")
	ErrNotFound           = errors.New("creative: not found")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	// Detail is the backend's own message, when it sent one.
	Detail string
	Body   string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("creative: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("creative: status %d, body: %s", e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) match 404 answers.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Message returns the text worth showing to a user for err: the backend detail
// when there is one, otherwise the error text itself.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{
		StatusCode: status,
		Detail:     parseDetail(body),
		Body:       strings.TrimSpace(string(body)),
	}
}

// parseDetail reads the "detail" field of an error body. It is either a string
// or a list of validation errors carrying "msg".
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrBackendTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %v", ErrBackendTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
	}
	return fmt.Errorf("failed to execute request: %w", err)
}
