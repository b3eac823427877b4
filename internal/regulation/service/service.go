// Package service holds the regulation review rules: filter normalization,
// the status transition table, and audit emission. Handlers stay thin; stores
// stay dumb.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"regwatch/internal/audit"
	"regwatch/internal/regulation/metrics"
	"regwatch/internal/regulation/models"
	"regwatch/internal/regulation/store"
	"regwatch/pkg/domain"
	dErrors "regwatch/pkg/domain-errors"
	"regwatch/pkg/platform/sentinel"
)

// Auditor is the slice of the audit worker the service needs.
type Auditor interface {
	Emit(event audit.Event)
}

// StatsSource answers the dashboard counts; either the store directly or the
// statscache in front of it.
type StatsSource interface {
	CountByStatus(ctx context.Context) (domain.StatusCounts, error)
}

// Invalidator optionally invalidates cached stats after a mutation.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Service implements the regulation operations behind the HTTP layer.
type Service struct {
	store   store.Store
	stats   StatsSource
	auditor Auditor
	metrics *metrics.Metrics
}

// New constructs a regulation service. stats may be nil to fall back to the
// store; auditor and metrics may be nil.
func New(st store.Store, stats StatsSource, auditor Auditor, m *metrics.Metrics) (*Service, error) {
	if st == nil {
		return nil, errors.New("regulation store is required")
	}
	if stats == nil {
		stats = st
	}
	return &Service{store: st, stats: stats, auditor: auditor, metrics: m}, nil
}

// List returns a filtered page of regulations in store display order.
func (s *Service) List(ctx context.Context, q models.ListQuery) (models.ListResult, error) {
	q = q.Normalize()
	if q.Status != "" && !domain.ReviewStatus(q.Status).IsValid() {
		return models.ListResult{}, dErrors.New(dErrors.CodeBadRequest, "unknown status filter")
	}

	start := time.Now()
	regs, total, err := s.store.List(ctx, q)
	s.metrics.ObserveListLatency(time.Since(start))
	if err != nil {
		return models.ListResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "list regulations")
	}
	return models.ListResult{
		Regulations: regs,
		Total:       total,
		Page:        q.Page,
		Limit:       q.Limit,
	}, nil
}

// Get returns one regulation by id.
func (s *Service) Get(ctx context.Context, id string) (domain.Regulation, error) {
	reg, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.Regulation{}, dErrors.New(dErrors.CodeNotFound, "regulation not found")
		}
		return domain.Regulation{}, dErrors.Wrap(err, dErrors.CodeInternal, "load regulation")
	}
	return reg, nil
}

// UpdateStatus applies a review-status transition after checking it against
// the workflow table, then emits an audit event and invalidates cached stats.
func (s *Service) UpdateStatus(ctx context.Context, change models.StatusChange) error {
	if !change.NewStatus.IsValid() {
		s.metrics.IncrementTransition("rejected_invalid")
		return dErrors.New(dErrors.CodeBadRequest, "unknown review status")
	}

	current, err := s.store.Get(ctx, change.RegulationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementTransition("not_found")
			return dErrors.New(dErrors.CodeNotFound, "regulation not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "load regulation")
	}

	if !current.Status.CanTransitionTo(change.NewStatus) {
		s.metrics.IncrementTransition("rejected_transition")
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("cannot move regulation from %s to %s", current.Status, change.NewStatus))
	}

	if err := s.store.UpdateStatus(ctx, change.RegulationID, change.NewStatus, change.Comment); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementTransition("not_found")
			return dErrors.New(dErrors.CodeNotFound, "regulation not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "update regulation status")
	}

	s.metrics.IncrementTransition("applied")
	if s.auditor != nil {
		s.auditor.Emit(audit.Event{
			Kind:         audit.EventStatusChanged,
			RegulationID: change.RegulationID,
			FromStatus:   string(current.Status),
			ToStatus:     string(change.NewStatus),
			Comment:      change.Comment,
			Actor:        change.Actor,
			SourceIP:     change.SourceIP,
		})
	}
	if inv, ok := s.stats.(Invalidator); ok {
		inv.Invalidate(ctx)
	}
	return nil
}

// Stats returns the dashboard counts.
func (s *Service) Stats(ctx context.Context) (domain.StatusCounts, error) {
	counts, err := s.stats.CountByStatus(ctx)
	if err != nil {
		return domain.StatusCounts{}, dErrors.Wrap(err, dErrors.CodeInternal, "count regulations")
	}
	return counts, nil
}
