package apiclient

import (
	"errors"
	"fmt"
)

// APIError is returned for every failed request. Status is 0 when no
// response was received.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Transport reports whether the request never reached the backend.
func (e *APIError) Transport() bool {
	return e.Status == 0
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// ErrEmptyBody is returned by the decode helpers when a value was expected
// but the backend sent nothing.
var ErrEmptyBody = errors.New("empty response body")

func decodeError(what string, err error) error {
	return fmt.Errorf("decode %s: %w", what, err)
}
