package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const defaultInboxSize = 256

// Worker decouples the request path from audit delivery: Emit enqueues and
// returns immediately, a single background goroutine drains to the publisher.
// Delivery is best effort; a full inbox or a failing publisher drops the event
// with a log line and never blocks or fails the status update that produced it.
type Worker struct {
	publisher Publisher
	logger    *slog.Logger
	inbox     chan Event
}

// NewWorker builds a worker in front of the given publisher.
func NewWorker(publisher Publisher, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Worker{
		publisher: publisher,
		logger:    logger,
		inbox:     make(chan Event, defaultInboxSize),
	}
}

// Emit enqueues an event, filling in id and timestamp when absent.
func (w *Worker) Emit(event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case w.inbox <- event:
	default:
		w.logger.Warn("audit inbox full, dropping event",
			"kind", event.Kind,
			"regulation_id", event.RegulationID,
		)
	}
}

// Run drains the inbox until ctx is cancelled, then delivers whatever is
// still buffered before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.publish(ctx, event)
		}
	}
}

func (w *Worker) drain() {
	// Detached context: the run context is already cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case event := <-w.inbox:
			w.publish(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) publish(ctx context.Context, event Event) {
	if err := w.publisher.Publish(ctx, event); err != nil {
		w.logger.Warn("audit publish failed, dropping event",
			"kind", event.Kind,
			"regulation_id", event.RegulationID,
			"error", err,
		)
	}
}
