package cases

import (
	"strings"

	"github.com/Madan2468/resqLink-frontend/internal/model"
)

// FilterAll is the sentinel predicate value that matches every case.
const FilterAll = "all"

// Predicate narrows a case collection. All populated predicates must
// match (conjunction). The zero value matches everything.
type Predicate struct {
	// Search is matched case-insensitively as a substring of the title
	// or the description. Empty matches everything, including cases
	// with neither field populated.
	Search string

	// Urgency is an exact match, or FilterAll/"" for no filtering.
	Urgency string

	// Status is an exact match, or FilterAll/"" for no filtering.
	Status string
}

// Filter returns the subsequence of cs matching p as a new slice. The
// input is never modified.
func Filter(cs []model.Case, p Predicate) []model.Case {
	out := make([]model.Case, 0, len(cs))
	for _, c := range cs {
		if Matches(c, p) {
			out = append(out, c)
		}
	}
	return out
}

// Matches reports whether a single case satisfies the predicate.
func Matches(c model.Case, p Predicate) bool {
	if !matchesSearch(c, p.Search) {
		return false
	}
	if !wildcard(p.Urgency) && string(c.Urgency) != p.Urgency {
		return false
	}
	if !wildcard(p.Status) && string(c.Status) != p.Status {
		return false
	}
	return true
}

func matchesSearch(c model.Case, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(c.Title), needle) ||
		strings.Contains(strings.ToLower(c.Description), needle)
}

func wildcard(v string) bool {
	return v == "" || v == FilterAll
}
