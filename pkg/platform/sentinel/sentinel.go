package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and gateway adapters return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: regulation does not exist in the store
// - ErrConflict: write collided with an existing record
// - ErrInvalidState: regulation in wrong review state for the requested change
// - ErrUnavailable: backing service temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
