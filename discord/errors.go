package discord

import (
	"errors"
	"fmt"
)

// APIError is returned for any non-success response from the remote API.
// Callers must not retry automatically; retries are a caller policy decision.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord api: status %d: %s", e.StatusCode, e.Body)
}

// IsAccessDenied reports whether the error is an authorization or not-found
// rejection. On bot-credential guild calls this is the normal signal that the
// bot is not installed in the guild.
func IsAccessDenied(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case 401, 403, 404:
		return true
	}
	return false
}
