package regclient_test

import (
	"context"

	"regwatch/pkg/domain"
	"regwatch/pkg/regclient"
)

// fakeGateway lets controller tests script gateway behavior per call without
// standing up an HTTP server.
type fakeGateway struct {
	listFn   func(ctx context.Context, f regclient.Filters) (regclient.ListResult, error)
	updateFn func(ctx context.Context, id string, status domain.ReviewStatus, comment string) error
}

func (g *fakeGateway) List(ctx context.Context, f regclient.Filters) (regclient.ListResult, error) {
	if g.listFn == nil {
		return regclient.ListResult{}, nil
	}
	return g.listFn(ctx, f)
}

func (g *fakeGateway) Get(ctx context.Context, id string) (domain.Regulation, error) {
	return domain.Regulation{}, nil
}

func (g *fakeGateway) UpdateStatus(ctx context.Context, id string, status domain.ReviewStatus, comment string) error {
	if g.updateFn == nil {
		return nil
	}
	return g.updateFn(ctx, id, status, comment)
}

func (g *fakeGateway) Stats(ctx context.Context) (domain.StatusCounts, error) {
	return domain.StatusCounts{}, nil
}
