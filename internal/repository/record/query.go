package record

import (
	"fmt"
	"strings"

	"github.com/calder-cloud/strindex/internal/domain/query"
)

// buildFilterQuery translates the canonical filter into an FT.SEARCH query
// string over the indexed fields. The contains_character clause is not
// included: it is a raw-value membership test applied after fetching, so
// it never depends on the search engine's tokenization.
func buildFilterQuery(f query.Filter) string {
	var parts []string

	if v, ok := f.IsPalindrome(); ok {
		parts = append(parts, fmt.Sprintf("@is_palindrome:{%t}", v))
	}

	minLen, hasMin := f.MinLength()
	maxLen, hasMax := f.MaxLength()
	if hasMin || hasMax {
		minBound, maxBound := "-inf", "+inf"
		if hasMin {
			minBound = fmt.Sprintf("%d", minLen)
		}
		if hasMax {
			maxBound = fmt.Sprintf("%d", maxLen)
		}
		parts = append(parts, fmt.Sprintf("@length:[%s %s]", minBound, maxBound))
	}

	if wc, ok := f.WordCount(); ok {
		parts = append(parts, fmt.Sprintf("@word_count:[%d %d]", wc, wc))
	}

	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}
