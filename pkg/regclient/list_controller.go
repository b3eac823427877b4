package regclient

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"regwatch/pkg/domain"
)

// ListState is the phase of the current fetch cycle.
type ListState int

const (
	ListIdle ListState = iota
	ListLoading
	ListSucceeded
	ListFallback
)

func (s ListState) String() string {
	switch s {
	case ListIdle:
		return "idle"
	case ListLoading:
		return "loading"
	case ListSucceeded:
		return "succeeded"
	case ListFallback:
		return "failed-with-fallback"
	default:
		return "unknown"
	}
}

// ListSnapshot is a consistent copy of the controller state for rendering.
type ListSnapshot struct {
	State       ListState
	Regulations []domain.Regulation
	Total       int
	Filters     Filters
	// Err is advisory: non-nil only in the failed-with-fallback state, where
	// the list is still populated and usable.
	Err error
}

// ListController owns the regulation list shown by a review screen: it runs
// one fetch cycle per filter change, substitutes the local fallback dataset
// when the gateway fails, and exposes a Refetch for collaborators (typically
// the status controller's success callback).
//
// Ordering: fetch cycles are last-request-wins. Each cycle takes a monotonic
// sequence number; a response belonging to a superseded cycle is discarded
// without touching state. Superseded gateway calls are not cancelled, their
// results are simply dropped.
//
// Construct one controller per screen with an injected gateway and fallback
// dataset; it is not a singleton. Methods are safe for concurrent use.
type ListController struct {
	gateway  Gateway
	fallback []domain.Regulation
	logger   *slog.Logger
	metrics  *Metrics

	mu          sync.Mutex
	seq         uint64
	filters     Filters
	state       ListState
	regulations []domain.Regulation
	total       int
	err         error
}

// NewListController builds a list controller. A nil fallback dataset selects
// the package demo set; logger and metrics may be nil.
func NewListController(gateway Gateway, fallback []domain.Regulation, logger *slog.Logger, metrics *Metrics) *ListController {
	if fallback == nil {
		fallback = FallbackRegulations()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ListController{
		gateway:  gateway,
		fallback: fallback,
		logger:   logger,
		metrics:  metrics,
		state:    ListIdle,
	}
}

// SetFilters replaces the held filters and starts a fetch cycle with them.
func (c *ListController) SetFilters(ctx context.Context, f Filters) {
	c.mu.Lock()
	c.filters = f
	c.mu.Unlock()
	c.fetch(ctx)
}

// Refetch re-runs a fetch cycle with the currently held filters. Callable at
// any time, including while another fetch is in flight.
func (c *ListController) Refetch(ctx context.Context) {
	c.fetch(ctx)
}

// fetch runs one cycle: claim a sequence number, call the gateway, and apply
// the result only if no newer cycle started meanwhile. The call blocks until
// the gateway answers; run it from a goroutine when the caller must not wait.
func (c *ListController) fetch(ctx context.Context) {
	c.mu.Lock()
	c.seq++
	mySeq := c.seq
	f := c.filters
	c.state = ListLoading
	c.err = nil
	c.mu.Unlock()

	start := time.Now()
	res, err := c.gateway.List(ctx, f)
	c.metrics.ObserveFetchLatency(time.Since(start))

	c.mu.Lock()
	defer c.mu.Unlock()
	if mySeq != c.seq {
		// A newer cycle owns the state now.
		c.metrics.IncrementFetch("stale")
		return
	}

	if err != nil {
		// NetworkError and ServerError both degrade to the local dataset; the
		// gateway contract produces nothing else. This is not a terminal
		// failure: the list stays populated and the error is advisory only.
		local := ApplyFilters(c.fallback, f)
		c.regulations = local
		c.total = len(local)
		c.err = fmt.Errorf("%w: %v", ErrOfflineFallback, err)
		c.state = ListFallback
		c.metrics.IncrementFetch("fallback")
		c.logger.Warn("list fetch failed, serving fallback dataset",
			"status_filter", f.Status,
			"search", f.Search,
			"fallback_total", len(local),
			"error", err,
		)
		return
	}

	// The gateway response is authoritative: records and total are stored
	// verbatim, with no local re-filtering or re-sorting.
	c.regulations = res.Regulations
	c.total = res.Total
	c.err = nil
	c.state = ListSucceeded
	c.metrics.IncrementFetch("success")
}

// Snapshot returns a copy of the current state. The records slice is copied so
// renderers can hold it across later cycles.
func (c *ListController) Snapshot() ListSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	regs := make([]domain.Regulation, len(c.regulations))
	copy(regs, c.regulations)
	return ListSnapshot{
		State:       c.state,
		Regulations: regs,
		Total:       c.total,
		Filters:     c.filters,
		Err:         c.err,
	}
}

// State returns the current fetch-cycle phase.
func (c *ListController) State() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the advisory error, if any.
func (c *ListController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
