package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/hammamikhairi/fridgechef/internal/domain"
)

// MsgNoResults is shown when a search matches nothing. The wording is
// fixed and user-facing; tests pin it.
const MsgNoResults = "Ramya, no such food exists in this planet"

const (
	msgNetwork   = "Error: could not reach the recipe service"
	msgDecode    = "Error: unexpected response from the recipe service"
	msgNotFound  = "Error: recipe not found"
	msgCancelled = "Error: request cancelled"
)

// FailureMessage turns a fetch error into the single line shown to the
// user. Errors never carry request URLs (they hold the API key), so the
// message is built from the error class only.
func FailureMessage(err error) string {
	var httpErr *domain.HTTPError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &httpErr):
		if httpErr.Reason == "" {
			return fmt.Sprintf("Error: %d", httpErr.StatusCode)
		}
		return fmt.Sprintf("Error: %d %s", httpErr.StatusCode, httpErr.Reason)
	case errors.Is(err, domain.ErrEmptyResult):
		return MsgNoResults
	case errors.Is(err, domain.ErrNotFound):
		return msgNotFound
	case errors.Is(err, domain.ErrDecode):
		return msgDecode
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return msgCancelled
	default:
		return msgNetwork
	}
}
