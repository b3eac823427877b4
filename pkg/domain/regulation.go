package domain

import (
	"time"

	dErrors "regwatch/pkg/domain-errors"
)

// ReviewStatus is the legal-review state of a regulation.
// Invariant: the value must be one of the four supported statuses; no other
// value is ever observable from this layer.
//
// Usage: construct via ParseReviewStatus at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type ReviewStatus string

// Supported review statuses.
const (
	StatusPending   ReviewStatus = "pending"
	StatusValidated ReviewStatus = "validated"
	StatusRejected  ReviewStatus = "rejected"
	StatusToReview  ReviewStatus = "to-review"
)

// StatusAll is a filter-only pseudo value meaning "no status filter". It is
// never a valid record status.
const StatusAll = "all"

// validReviewStatuses is the single source of truth for valid statuses.
var validReviewStatuses = map[ReviewStatus]bool{
	StatusPending:   true,
	StatusValidated: true,
	StatusRejected:  true,
	StatusToReview:  true,
}

// allowedTransitions encodes the review workflow. Validated and rejected are
// terminal here; re-opening a closed regulation is the collection pipeline's
// job, not this layer's.
var allowedTransitions = map[ReviewStatus][]ReviewStatus{
	StatusPending:  {StatusValidated, StatusRejected, StatusToReview},
	StatusToReview: {StatusValidated, StatusRejected},
}

// ParseReviewStatus constructs a ReviewStatus from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or outside the
// four-element enum; no other errors are expected.
func ParseReviewStatus(s string) (ReviewStatus, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "status cannot be empty")
	}
	st := ReviewStatus(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid review status")
	}
	return st, nil
}

// IsValid checks if the status is one of the four supported enum values.
func (s ReviewStatus) IsValid() bool {
	return validReviewStatuses[s]
}

// CanTransitionTo reports whether the review workflow permits moving from s
// to next.
func (s ReviewStatus) CanTransitionTo(next ReviewStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Regulation is a tracked regulatory item with a reviewable status. It is
// created upstream by the collection pipeline; this system only reads records
// and mutates Status. DateCreated is immutable after creation.
type Regulation struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      ReviewStatus `json:"status"`
	Type        string       `json:"type"`
	DateCreated time.Time    `json:"dateCreated"`
	Reference   string       `json:"reference,omitempty"`
}

// StatusCounts aggregates regulations by review status for the dashboard.
type StatusCounts struct {
	Total    int                  `json:"total"`
	ByStatus map[ReviewStatus]int `json:"byStatus"`
}
