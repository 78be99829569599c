package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches a RequestError whose response status was 404.
var ErrNotFound = errors.New("not found")

// RequestError reports a failed call. Status is zero when no response was received.
type RequestError struct {
	Resource string
	Action   string
	Status   int
	Message  string
	Err      error
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s %s: request failed: %v", e.Action, e.Resource, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s: request failed (%d): %s", e.Action, e.Resource, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s %s: request failed with status %d", e.Action, e.Resource, e.Status)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) succeed for 404 responses.
func (e *RequestError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// IsNotFound reports whether err is a 404 RequestError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
