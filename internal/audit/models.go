package audit

import "time"

// EventStatusChanged is the only event kind this slice emits; the collection
// pipeline owns creation events upstream.
const EventStatusChanged = "regulation.status_changed"

// Event is emitted from domain logic to capture review actions. Keep it
// transport-agnostic so publishers can fan out.
type Event struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	RegulationID string    `json:"regulationId"`
	FromStatus   string    `json:"fromStatus"`
	ToStatus     string    `json:"toStatus"`
	Comment      string    `json:"comment,omitempty"`
	Actor        string    `json:"actor,omitempty"`
	SourceIP     string    `json:"sourceIp,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
