package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across layers.
var (
	ErrNotFound    = errors.New("not found")
	ErrNetwork     = errors.New("network failure")
	ErrEmptyResult = errors.New("no results")
	ErrDecode      = errors.New("malformed response")
	ErrSpeech      = errors.New("speech failure")
)

// HTTPError is returned when the recipe service answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Reason     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d %s", e.StatusCode, e.Reason)
}
