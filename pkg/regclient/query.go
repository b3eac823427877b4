package regclient

import "regwatch/pkg/domain"

// ApplyFilters runs the list-query predicate locally. It is the same logic the
// backend applies server-side, which keeps the fallback path structurally
// identical to the real one: tests and consumers see one filter contract no
// matter where the data came from. Pure, stable and idempotent; pagination is
// intentionally not applied here since the fallback set fits one page.
func ApplyFilters(regs []domain.Regulation, f Filters) []domain.Regulation {
	return domain.FilterRegulations(regs, f.Status, f.Search)
}
