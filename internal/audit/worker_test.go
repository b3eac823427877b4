package audit_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regwatch/internal/audit"
)

func TestWorkerDeliversEvents(t *testing.T) {
	pub := audit.NewMemoryPublisher()
	w := audit.NewWorker(pub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	w.Emit(audit.Event{
		Kind:         audit.EventStatusChanged,
		RegulationID: "42",
		FromStatus:   "pending",
		ToStatus:     "validated",
	})

	require.Eventually(t, func() bool {
		return len(pub.Events()) == 1
	}, time.Second, time.Millisecond)

	got := pub.Events()[0]
	assert.NotEmpty(t, got.ID, "worker assigns an id")
	assert.False(t, got.Timestamp.IsZero(), "worker assigns a timestamp")
	assert.Equal(t, "42", got.RegulationID)

	cancel()
	<-done
}

func TestWorkerDrainsOnShutdown(t *testing.T) {
	pub := audit.NewMemoryPublisher()
	w := audit.NewWorker(pub, nil)

	// Enqueue before the worker ever runs, then cancel immediately: the
	// buffered events must still be delivered by the shutdown drain.
	for i := 0; i < 5; i++ {
		w.Emit(audit.Event{Kind: audit.EventStatusChanged, RegulationID: "1"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, pub.Events(), 5)
}

type failingPublisher struct {
	calls atomic.Int64
}

func (p *failingPublisher) Publish(context.Context, audit.Event) error {
	p.calls.Add(1)
	return errors.New("broker unreachable")
}

func (p *failingPublisher) Close() {}

func TestPublisherFailureNeverPropagates(t *testing.T) {
	pub := &failingPublisher{}
	w := audit.NewWorker(pub, nil)

	w.Emit(audit.Event{Kind: audit.EventStatusChanged, RegulationID: "1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = w.Run(ctx)

	assert.Equal(t, int64(1), pub.calls.Load(), "event was attempted and dropped, not retried forever")
}
