package store

import (
	"context"
	"sync"

	"regwatch/internal/regulation/models"
	"regwatch/pkg/domain"
	"regwatch/pkg/platform/sentinel"
)

// MemoryStore is an in-memory Store for unit tests and demo deployments.
// Records keep insertion order, which doubles as display order.
type MemoryStore struct {
	mu      sync.RWMutex
	order   []string
	records map[string]domain.Regulation
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]domain.Regulation),
	}
}

// List returns the filtered page and the total matching count.
func (s *MemoryStore) List(_ context.Context, q models.ListQuery) ([]domain.Regulation, int, error) {
	q = q.Normalize()

	s.mu.RLock()
	all := make([]domain.Regulation, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, s.records[id])
	}
	s.mu.RUnlock()

	filtered := domain.FilterRegulations(all, q.Status, q.Search)
	total := len(filtered)

	start := q.Offset()
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	page := make([]domain.Regulation, end-start)
	copy(page, filtered[start:end])
	return page, total, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (domain.Regulation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.records[id]
	if !ok {
		return domain.Regulation{}, sentinel.ErrNotFound
	}
	return reg, nil
}

func (s *MemoryStore) Create(_ context.Context, reg domain.Regulation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[reg.ID]; exists {
		return sentinel.ErrConflict
	}
	s.records[reg.ID] = reg
	s.order = append(s.order, reg.ID)
	return nil
}

// UpdateStatus mutates only the status field; everything else, dateCreated
// included, stays untouched. The comment travels to the audit trail, not the
// record.
func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status domain.ReviewStatus, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.records[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	reg.Status = status
	s.records[id] = reg
	return nil
}

func (s *MemoryStore) CountByStatus(_ context.Context) (domain.StatusCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := domain.StatusCounts{
		Total:    len(s.order),
		ByStatus: make(map[domain.ReviewStatus]int),
	}
	for _, reg := range s.records {
		counts.ByStatus[reg.Status]++
	}
	return counts, nil
}
