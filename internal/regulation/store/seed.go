package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"regwatch/pkg/domain"
)

// Seed loads a sample corpus into the store. It stands in for the upstream
// collection pipeline in demo deployments so a fresh instance has a
// reviewable queue immediately.
func Seed(ctx context.Context, s Store) error {
	base := time.Date(2024, time.January, 8, 9, 0, 0, 0, time.UTC)
	samples := []domain.Regulation{
		{
			Title:       "REACH Annex XVII restriction update",
			Description: "Amendment restricting intentionally added microplastics in consumer products.",
			Status:      domain.StatusPending,
			Type:        "EU",
			Reference:   "Regulation (EC) No 1907/2006",
		},
		{
			Title:       "Corporate Sustainability Reporting Directive",
			Description: "Extends sustainability disclosure duties to large undertakings from FY2024.",
			Status:      domain.StatusPending,
			Type:        "Directive",
			Reference:   "Directive (EU) 2022/2464",
		},
		{
			Title:       "GDPR adequacy decision renewal",
			Description: "Renewed adequacy decision for cross-border personal data transfers.",
			Status:      domain.StatusValidated,
			Type:        "EU",
			Reference:   "Regulation (EU) 2016/679",
		},
		{
			Title:       "Machinery Regulation transition guidance",
			Description: "Guidance on the transition period replacing the Machinery Directive.",
			Status:      domain.StatusToReview,
			Type:        "Regulation",
			Reference:   "Regulation (EU) 2023/1230",
		},
		{
			Title:       "CBAM transitional registry reporting",
			Description: "Quarterly embedded-emissions reporting duties for importers of covered goods.",
			Status:      domain.StatusPending,
			Type:        "Regulation",
			Reference:   "Regulation (EU) 2023/956",
		},
		{
			Title:       "Deforestation-free products due diligence",
			Description: "Due diligence statements required before placing covered commodities on the market.",
			Status:      domain.StatusRejected,
			Type:        "Regulation",
			Reference:   "Regulation (EU) 2023/1115",
		},
	}

	for i, reg := range samples {
		reg.ID = uuid.NewString()
		reg.DateCreated = base.AddDate(0, 0, 7*i)
		if err := s.Create(ctx, reg); err != nil {
			return err
		}
	}
	return nil
}
