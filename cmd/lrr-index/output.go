package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/lrrindex/lrr-index/internal/config"
	"github.com/lrrindex/lrr-index/internal/fetch"
	"github.com/lrrindex/lrr-index/internal/importer"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// exitError attaches an exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// withCode marks err with an exit code, overriding the classification in
// exitCodeFor.
func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) int {
	var ee *exitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &ee):
		return ee.code
	case errors.Is(err, config.ErrInvalid):
		return ExitConfigError
	case errors.Is(err, importer.ErrMalformedInput),
		errors.Is(err, importer.ErrInvalidCorrection):
		return ExitDataError
	case errors.Is(err, fetch.ErrHTTPStatus),
		errors.Is(err, fetch.ErrNetworkError),
		errors.Is(err, fetch.ErrInvalidResponse):
		return ExitFetchError
	default:
		return ExitError
	}
}

// reportError outputs an error in the appropriate format (human or JSON)
// and returns the exit code.
func reportError(err error) int {
	code := exitCodeFor(err)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	} else {
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		enc.Encode(ErrorResponse{Error: err.Error(), Code: code})
	}
	return code
}
