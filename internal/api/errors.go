package api

import (
	"encoding/json"
	"fmt"
)

// ApiError is a response the server answered with a non-success status.
// Message carries the server's own text when the body had one.
type ApiError struct {
	Status  int
	Message string
}

func (e *ApiError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// TransportError means no usable response came back: connection refused,
// DNS failure, timeout. Callers show a generic connectivity message for it.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "could not reach the server: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// serverMessage pulls a human-readable message out of an error body.
// The API is loose about the field name, so both common spellings are
// accepted; anything else falls back to the status-based message.
func serverMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
