package fetch

import (
	"errors"
	"fmt"
)

// Common errors returned by the fetch client.
var (
	// ErrHTTPStatus indicates the server answered with a non-2xx status.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrNetworkError indicates the request could not be completed.
	ErrNetworkError = errors.New("network error")

	// ErrInvalidResponse indicates a page that is not an INSPIRE search result.
	ErrInvalidResponse = errors.New("invalid response")
)

// StatusError carries the status of a failed request.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d", e.URL, e.StatusCode)
}

// Is lets errors.Is match ErrHTTPStatus.
func (e *StatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}
