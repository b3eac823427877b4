package handler

import (
	"strings"

	"regwatch/pkg/domain"
	dErrors "regwatch/pkg/domain-errors"
)

const maxCommentLength = 2000

// UpdateStatusRequest is the HTTP request body for PUT /api/regulations/{id}/status.
type UpdateStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`

	// Parsed value (populated by Validate)
	parsedStatus domain.ReviewStatus
}

// Validate validates and parses the request.
// Implements the Validator interface for httputil.DecodeJSON.
func (r *UpdateStatusRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Status = strings.TrimSpace(r.Status)
	if r.Status == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "status is required")
	}

	status, err := domain.ParseReviewStatus(r.Status)
	if err != nil {
		return err
	}
	r.parsedStatus = status

	r.Comment = strings.TrimSpace(r.Comment)
	if len(r.Comment) > maxCommentLength {
		return dErrors.New(dErrors.CodeInvalidInput, "comment must be at most 2000 characters")
	}

	return nil
}

// ParsedStatus returns the validated review status.
func (r *UpdateStatusRequest) ParsedStatus() domain.ReviewStatus {
	return r.parsedStatus
}
