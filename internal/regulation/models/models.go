package models

import "regwatch/pkg/domain"

// Pagination bounds. Offset/limit passthrough only; there is no cursor
// protocol.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListQuery is the recognized filter configuration for the list endpoint.
// Status holds one of the four review statuses, "all", or ""; Search is a
// case-insensitive substring over title and description.
type ListQuery struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// Normalize clamps pagination to sane bounds and collapses the "all" pseudo
// status to no filter.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if q.Status == domain.StatusAll {
		q.Status = ""
	}
	return q
}

// Offset translates 1-based paging into a row offset.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ListResult is one page of regulations plus the total count across pages.
type ListResult struct {
	Regulations []domain.Regulation
	Total       int
	Page        int
	Limit       int
}

// StatusChange describes a requested review-status transition.
type StatusChange struct {
	RegulationID string
	NewStatus    domain.ReviewStatus
	Comment      string
	Actor        string
	SourceIP     string
}
