package domain

import (
	"strings"

	"github.com/samber/lo"
)

// FilterRegulations narrows a regulation list by review status and free-text
// search. The status filter runs first, then the search filter; relative order
// of the input is preserved and the function is a pure identity on empty
// filters. Both the backend list endpoint and the local fallback path use this
// same predicate so the two stay observably interchangeable.
//
// status accepts one of the four review statuses, or ""/StatusAll for no
// filter. search matches case-insensitively as a plain substring against
// title and description, not tokenized.
func FilterRegulations(regs []Regulation, status, search string) []Regulation {
	out := regs
	if status != "" && status != StatusAll {
		out = lo.Filter(out, func(r Regulation, _ int) bool {
			return string(r.Status) == status
		})
	}
	if search != "" {
		needle := strings.ToLower(search)
		out = lo.Filter(out, func(r Regulation, _ int) bool {
			return strings.Contains(strings.ToLower(r.Title), needle) ||
				strings.Contains(strings.ToLower(r.Description), needle)
		})
	}
	return out
}
