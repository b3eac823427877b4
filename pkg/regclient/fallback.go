package regclient

import (
	"time"

	"regwatch/pkg/domain"
)

// fallbackRegulations is the deterministic demo dataset substituted when the
// backend is unreachable. It is never written to; status changes made while
// offline are simulated and never persisted. The set is small on purpose:
// two pending, one validated, one to-review, so the review queue, the
// dashboard counters and the status filters all have something to show.
var fallbackRegulations = []domain.Regulation{
	{
		ID:          "1",
		Title:       "REACH Annex XVII restriction update",
		Description: "Amendment restricting intentionally added microplastics in consumer products.",
		Status:      domain.StatusPending,
		Type:        "EU",
		DateCreated: time.Date(2024, time.March, 12, 9, 30, 0, 0, time.UTC),
		Reference:   "Regulation (EC) No 1907/2006",
	},
	{
		ID:          "2",
		Title:       "Corporate Sustainability Reporting Directive",
		Description: "Extends sustainability disclosure duties to large undertakings from FY2024.",
		Status:      domain.StatusPending,
		Type:        "Directive",
		DateCreated: time.Date(2024, time.February, 5, 14, 0, 0, 0, time.UTC),
		Reference:   "Directive (EU) 2022/2464",
	},
	{
		ID:          "3",
		Title:       "GDPR adequacy decision renewal",
		Description: "Renewed adequacy decision for cross-border personal data transfers.",
		Status:      domain.StatusValidated,
		Type:        "EU",
		DateCreated: time.Date(2024, time.January, 18, 11, 15, 0, 0, time.UTC),
		Reference:   "Regulation (EU) 2016/679",
	},
	{
		ID:          "4",
		Title:       "Machinery Regulation transition guidance",
		Description: "Guidance on the transition period replacing the Machinery Directive.",
		Status:      domain.StatusToReview,
		Type:        "Regulation",
		DateCreated: time.Date(2024, time.April, 2, 8, 45, 0, 0, time.UTC),
		Reference:   "Regulation (EU) 2023/1230",
	},
}

// FallbackRegulations returns a fresh copy of the demo dataset so callers can
// never corrupt the canonical sequence.
func FallbackRegulations() []domain.Regulation {
	out := make([]domain.Regulation, len(fallbackRegulations))
	copy(out, fallbackRegulations)
	return out
}
