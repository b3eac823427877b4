package handler

import (
	"time"

	"regwatch/internal/regulation/models"
	"regwatch/pkg/domain"
)

// RegulationResponse is the wire shape of a single regulation.
type RegulationResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Type        string    `json:"type"`
	DateCreated time.Time `json:"dateCreated"`
	Reference   string    `json:"reference,omitempty"`
}

// ListResponse is the HTTP response for GET /api/regulations.
type ListResponse struct {
	Regulations []RegulationResponse `json:"regulations"`
	Total       int                  `json:"total"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
}

// StatsResponse is the HTTP response for GET /api/regulations/stats.
type StatsResponse struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

// FromRegulation converts a domain regulation to its wire shape.
func FromRegulation(reg domain.Regulation) RegulationResponse {
	return RegulationResponse{
		ID:          reg.ID,
		Title:       reg.Title,
		Description: reg.Description,
		Status:      string(reg.Status),
		Type:        reg.Type,
		DateCreated: reg.DateCreated,
		Reference:   reg.Reference,
	}
}

// FromListResult converts a list result page to its wire shape.
func FromListResult(res models.ListResult) ListResponse {
	regs := make([]RegulationResponse, 0, len(res.Regulations))
	for _, reg := range res.Regulations {
		regs = append(regs, FromRegulation(reg))
	}
	return ListResponse{
		Regulations: regs,
		Total:       res.Total,
		Page:        res.Page,
		Limit:       res.Limit,
	}
}

// FromStatusCounts converts dashboard counts to their wire shape.
func FromStatusCounts(counts domain.StatusCounts) StatsResponse {
	byStatus := make(map[string]int, len(counts.ByStatus))
	for status, n := range counts.ByStatus {
		byStatus[string(status)] = n
	}
	return StatsResponse{Total: counts.Total, ByStatus: byStatus}
}
