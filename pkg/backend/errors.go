package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// ErrorType categorizes failures talking to the backend service
type ErrorType string

const (
	ErrorTypeServiceUnavailable ErrorType = "service_unavailable"
	ErrorTypeTimeout            ErrorType = "timeout"
	ErrorTypeNetwork            ErrorType = "network"
	ErrorTypeRejected           ErrorType = "rejected"
	ErrorTypeNotFound           ErrorType = "not_found"
	ErrorTypeInvalidResponse    ErrorType = "invalid_response"
	ErrorTypeCancelled          ErrorType = "cancelled"
)

// ErrNotFound matches any RequestError for a 404 response.
var ErrNotFound = errors.New("not found")

// RequestError represents a structured failure of a backend call
type RequestError struct {
	Type       ErrorType
	StatusCode int // zero for transport failures
	Message    string
	Cause      error
}

func (e *RequestError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrNotFound) work for 404 responses.
func (e *RequestError) Is(target error) bool {
	return target == ErrNotFound && e.Type == ErrorTypeNotFound
}

// IsTransport reports whether the request never produced a backend response.
func (e *RequestError) IsTransport() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeTimeout, ErrorTypeServiceUnavailable, ErrorTypeCancelled:
		return e.StatusCode == 0
	}
	return false
}

// UserMessage returns a user-friendly error message
func (e *RequestError) UserMessage() string {
	switch e.Type {
	case ErrorTypeServiceUnavailable:
		return "Backend service unavailable. Please check if the service is running."
	case ErrorTypeTimeout:
		return "Request to the backend timed out. The service may be busy."
	case ErrorTypeNetwork:
		return "Network error talking to the backend. Please check your connection and try again."
	case ErrorTypeInvalidResponse:
		return "Received an invalid response from the backend service."
	case ErrorTypeCancelled:
		return "Request was cancelled."
	default:
		return e.Message
	}
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// AsRequestError extracts a RequestError from an error chain.
func AsRequestError(err error) (*RequestError, bool) {
	var rerr *RequestError
	if errors.As(err, &rerr) {
		return rerr, true
	}
	return nil, false
}

func newTransportError(err error) *RequestError {
	switch {
	case errors.Is(err, context.Canceled):
		return &RequestError{Type: ErrorTypeCancelled, Message: "Operation cancelled", Cause: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &RequestError{Type: ErrorTypeTimeout, Message: "Request timed out", Cause: err}
	case errors.Is(err, syscall.ECONNREFUSED):
		return &RequestError{Type: ErrorTypeServiceUnavailable, Message: "Service not available", Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &RequestError{Type: ErrorTypeTimeout, Message: "Request timed out", Cause: err}
	}
	return &RequestError{Type: ErrorTypeNetwork, Message: "Network error", Cause: err}
}

func newInvalidResponseError(message string, cause error) *RequestError {
	return &RequestError{
		Type:    ErrorTypeInvalidResponse,
		Message: message,
		Cause:   cause,
	}
}

// newStatusError builds the error for a non-2xx response, preferring the
// backend's detail text over the generic fallback.
func newStatusError(status int, body []byte, fallback string) *RequestError {
	msg := detailMessage(body)
	if msg == "" {
		msg = fallback
	}
	t := ErrorTypeRejected
	switch status {
	case http.StatusNotFound:
		t = ErrorTypeNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		t = ErrorTypeServiceUnavailable
	}
	return &RequestError{Type: t, StatusCode: status, Message: msg}
}

// detailMessage pulls a readable message out of an error body. It understands
// {"detail": "..."}, FastAPI validation lists {"detail": [{"loc": [...], "msg": "..."}]}
// and {"error": "..."}.
func detailMessage(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return strings.TrimSpace(string(body))
	}
	if len(envelope.Detail) > 0 {
		var s string
		if err := json.Unmarshal(envelope.Detail, &s); err == nil {
			return s
		}
		var items []struct {
			Loc []any  `json:"loc"`
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 {
			parts := make([]string, 0, len(items))
			for _, it := range items {
				if loc := locPath(it.Loc); loc != "" {
					parts = append(parts, fmt.Sprintf("%s: %s", loc, it.Msg))
				} else {
					parts = append(parts, it.Msg)
				}
			}
			return strings.Join(parts, "; ")
		}
		return string(envelope.Detail)
	}
	return envelope.Error
}

func locPath(loc []any) string {
	parts := make([]string, 0, len(loc))
	for _, p := range loc {
		s := fmt.Sprint(p)
		if s == "body" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ".")
}
