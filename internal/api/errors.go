package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is matched by errors.Is for any 401 response. The client
// never refreshes tokens on its own; callers surface the message instead.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden is matched by errors.Is for any 403 response.
var ErrForbidden = errors.New("forbidden")

// Error is a non-2xx response from the remote service.
type Error struct {
	Status int
	Method string
	Path   string

	// Message is the error text from the response payload, if any.
	Message string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// Unwrap lets errors.Is classify auth failures.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	default:
		return nil
	}
}

// errorPayload covers both the service's own {"error": ...} bodies and the
// {"msg": ...} bodies produced by its JWT layer.
type errorPayload struct {
	Error   string `json:"error"`
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

func newError(status int, method, path string, body []byte) *Error {
	e := &Error{Status: status, Method: method, Path: path}

	var payload errorPayload
	if json.Unmarshal(body, &payload) == nil {
		switch {
		case payload.Error != "":
			e.Message = payload.Error
		case payload.Msg != "":
			e.Message = payload.Msg
		case payload.Message != "":
			e.Message = payload.Message
		}
	}
	return e
}

// Message returns the server-supplied error text carried by err, or fallback
// when err is not an API error or the server sent no text.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
