package regclient

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"regwatch/pkg/domain"
)

// StatusState is the phase of the most recently initiated status update.
type StatusState int

const (
	StatusIdle StatusState = iota
	StatusUpdating
	StatusResolved
)

func (s StatusState) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusUpdating:
		return "updating"
	case StatusResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// DefaultSimulatedSuccessDelay is how long demo mode waits before firing the
// success callback for a failed update.
const DefaultSimulatedSuccessDelay = 1500 * time.Millisecond

// StatusController orchestrates review-status transition requests. It owns no
// records, only the in-flight request state, and is deliberately decoupled
// from the list controller: collaborators pass a success callback (typically
// the list controller's Refetch) to observe the change.
//
// Failure policy: a gateway failure is never propagated as a hard error.
// Instead the success callback is scheduled after a fixed delay and an
// advisory error wrapping ErrSimulatedUpdate is set, keeping the demo usable
// against a dead backend. The advisory error is the only way to tell a
// simulated success from a real one.
//
// Concurrent UpdateStatus calls are independent; no de-duplication is
// performed. State and Err reflect only the most recently initiated call.
type StatusController struct {
	gateway Gateway
	delay   time.Duration
	logger  *slog.Logger
	metrics *Metrics

	mu    sync.Mutex
	seq   uint64
	state StatusState
	err   error
}

// NewStatusController builds a status controller. A non-positive delay
// selects DefaultSimulatedSuccessDelay; logger and metrics may be nil.
func NewStatusController(gateway Gateway, delay time.Duration, logger *slog.Logger, metrics *Metrics) *StatusController {
	if delay <= 0 {
		delay = DefaultSimulatedSuccessDelay
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &StatusController{
		gateway: gateway,
		delay:   delay,
		logger:  logger,
		metrics: metrics,
		state:   StatusIdle,
	}
}

// UpdateStatus asks the backend to move a regulation to newStatus. onSuccess
// may be nil; when set it fires exactly once, synchronously on real success or
// after the fixed delay on simulated success.
//
// The only hard error is *InvalidStatusError, returned synchronously when
// newStatus is outside the four-element enum; the gateway is not invoked in
// that case.
func (c *StatusController) UpdateStatus(ctx context.Context, id, newStatus, comment string, onSuccess func()) error {
	status := domain.ReviewStatus(newStatus)
	if !status.IsValid() {
		c.metrics.IncrementStatusUpdate("invalid")
		return &InvalidStatusError{Status: newStatus}
	}

	c.mu.Lock()
	c.seq++
	mySeq := c.seq
	c.state = StatusUpdating
	c.err = nil
	c.mu.Unlock()

	err := c.gateway.UpdateStatus(ctx, id, status, comment)
	if err == nil {
		if onSuccess != nil {
			onSuccess()
		}
		c.mu.Lock()
		if mySeq == c.seq {
			c.state = StatusResolved
			c.err = nil
		}
		c.mu.Unlock()
		c.metrics.IncrementStatusUpdate("success")
		return nil
	}

	// Demo continuity over strict correctness: surface the failure only as an
	// advisory error and let the flow resolve as if it had succeeded.
	advisory := fmt.Errorf("%w: %v", ErrSimulatedUpdate, err)
	c.mu.Lock()
	if mySeq == c.seq {
		c.err = advisory
	}
	c.mu.Unlock()
	c.metrics.IncrementStatusUpdate("simulated")
	c.logger.Warn("status update failed, simulating success",
		"regulation_id", id,
		"new_status", newStatus,
		"delay", c.delay,
		"error", err,
	)

	time.AfterFunc(c.delay, func() {
		if onSuccess != nil {
			onSuccess()
		}
		c.mu.Lock()
		if mySeq == c.seq {
			// The advisory error stays set; only the phase resolves.
			c.state = StatusResolved
		}
		c.mu.Unlock()
	})
	return nil
}

// Updating reports whether the most recently initiated call is still in
// flight. It is a single flag, not a counter.
func (c *StatusController) Updating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StatusUpdating
}

// State returns the phase of the most recently initiated call.
func (c *StatusController) State() StatusState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the advisory error, if any.
func (c *StatusController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
