package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"sangkumfund/internal/status"
)

// Error is returned for every non-2xx response. It is the equivalent of
// inspecting error.response on the browser client: Status carries the
// HTTP status and Message the server-provided message, if any.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
	Body    []byte
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("apiclient: %s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// Unwrap lets callers use errors.Is(err, status.ErrUnauthorized).
func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return status.ErrUnauthorized
	}
	return nil
}

func newError(method, path string, code int, body []byte) *Error {
	return &Error{
		Method:  method,
		Path:    path,
		Status:  code,
		Message: serverMessage(body),
		Body:    body,
	}
}

// serverMessage extracts message or error from a JSON error body.
func serverMessage(body []byte) string {
	var reply struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return ""
	}
	if m := strings.TrimSpace(reply.Message); m != "" {
		return m
	}
	return strings.TrimSpace(reply.Error)
}

// StatusOf returns the HTTP status carried by err, or 0 for transport
// failures and non-API errors.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the server-provided message carried by err, or "".
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
