package regclient

import (
	"errors"
	"fmt"
)

// NetworkError means the transport failed outright: no HTTP response was
// received (DNS failure, connection refused, timeout after retries).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError means the backend was reachable but answered with a non-success
// status, or with a body that failed schema validation. Malformed responses
// are deliberately folded in here so undefined fields never leak past the
// gateway boundary.
type ServerError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: server error (status %d): %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: server error: %s", e.Op, e.Message)
}

// InvalidStatusError is returned synchronously when a caller supplies a review
// status outside the four-element enum. The gateway is never invoked.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid review status %q", e.Status)
}

// ErrValidation is reserved for upstream form layers; the data layer itself
// never raises it but consumers branch on it alongside the gateway errors.
var ErrValidation = errors.New("validation failed")

// Advisory errors. The controllers surface these as non-fatal state rather
// than returning them: the UI stays populated and usable while they are set.
var (
	// ErrOfflineFallback marks list results substituted from the local demo
	// dataset because the backend was unreachable.
	ErrOfflineFallback = errors.New("backend unreachable, showing local demo data")

	// ErrSimulatedUpdate marks a status update whose success was simulated in
	// demo mode after the backend call failed. A consumer relying solely on
	// the success callback cannot tell this from a real success; this error is
	// the only distinguishing signal.
	ErrSimulatedUpdate = errors.New("demo mode: status update simulated")
)
