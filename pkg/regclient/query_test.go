package regclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regwatch/pkg/domain"
	"regwatch/pkg/regclient"
)

func TestApplyFiltersScenarios(t *testing.T) {
	regs := regclient.FallbackRegulations()
	require.Len(t, regs, 4, "demo dataset contract: 2 pending, 1 validated, 1 to-review")

	tests := []struct {
		name    string
		filters regclient.Filters
		want    int
	}{
		{name: "all statuses empty search", filters: regclient.Filters{Status: domain.StatusAll, Search: ""}, want: 4},
		{name: "empty filters are identity", filters: regclient.Filters{}, want: 4},
		{name: "pending only", filters: regclient.Filters{Status: string(domain.StatusPending)}, want: 2},
		{name: "validated only", filters: regclient.Filters{Status: string(domain.StatusValidated)}, want: 1},
		{name: "search matches one title", filters: regclient.Filters{Search: "REACH"}, want: 1},
		{name: "search is case-insensitive", filters: regclient.Filters{Search: "reach"}, want: 1},
		{name: "search over descriptions", filters: regclient.Filters{Search: "disclosure"}, want: 1},
		{name: "status and search combine", filters: regclient.Filters{Status: string(domain.StatusValidated), Search: "REACH"}, want: 0},
		{name: "unmatched search", filters: regclient.Filters{Search: "asbestos"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := regclient.ApplyFilters(regs, tt.filters)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestApplyFiltersIsIdempotent(t *testing.T) {
	regs := regclient.FallbackRegulations()
	filters := []regclient.Filters{
		{},
		{Status: domain.StatusAll},
		{Status: string(domain.StatusPending)},
		{Search: "REACH"},
		{Status: string(domain.StatusPending), Search: "microplastics"},
	}

	for _, f := range filters {
		once := regclient.ApplyFilters(regs, f)
		twice := regclient.ApplyFilters(once, f)
		assert.Equal(t, once, twice, "filters %+v", f)
	}
}

func TestApplyFiltersPreservesOrder(t *testing.T) {
	regs := regclient.FallbackRegulations()

	got := regclient.ApplyFilters(regs, regclient.Filters{Status: string(domain.StatusPending)})
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}

func TestFallbackRegulationsInvariants(t *testing.T) {
	regs := regclient.FallbackRegulations()

	seen := map[string]bool{}
	for _, r := range regs {
		assert.True(t, r.Status.IsValid(), "status %q on %s", r.Status, r.ID)
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
		assert.False(t, r.DateCreated.IsZero(), "dateCreated on %s", r.ID)
	}
}

func TestFallbackRegulationsReturnsCopy(t *testing.T) {
	first := regclient.FallbackRegulations()
	first[0].Status = domain.StatusRejected

	second := regclient.FallbackRegulations()
	assert.Equal(t, domain.StatusPending, second[0].Status, "mutating a returned slice must not corrupt the canonical set")
}
