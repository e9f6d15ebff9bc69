package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/calder-cloud/strindex/internal/domain"
)

// rule is one (predicate, filter-effect) pair in the natural-language
// table. apply inspects the lowercased phrase and reports whether it
// fired; rules accumulate clauses into the shared Filter, so a later
// rule disagreeing with an earlier one surfaces as ErrConflictingFilters.
type rule struct {
	name  string
	apply func(phrase string, f *Filter) (bool, error)
}

var (
	longerThanRe  = regexp.MustCompile(`longer than (\d+)`)
	shorterThanRe = regexp.MustCompile(`shorter than (\d+)`)
	// The trailing \b keeps the capture from grabbing the first letter of a
	// longer word ("containing the first vowel" must not capture "f").
	containsLetterRe = regexp.MustCompile(`contain(?:s|ing)?\s+(?:the\s+)?(?:letter\s+)?([a-z])\b`)
)

// rules is evaluated in order for every phrase. The table is closed:
// anything outside this vocabulary is rejected, never guessed at.
var rules = []rule{
	{"palindrome", func(phrase string, f *Filter) (bool, error) {
		if !strings.Contains(phrase, "palindrome") && !strings.Contains(phrase, "palindromic") {
			return false, nil
		}
		return true, f.SetIsPalindrome(true)
	}},
	{"single word", func(phrase string, f *Filter) (bool, error) {
		if !strings.Contains(phrase, "single word") {
			return false, nil
		}
		return true, f.SetWordCount(1)
	}},
	{"two word", func(phrase string, f *Filter) (bool, error) {
		if !strings.Contains(phrase, "two word") && !strings.Contains(phrase, "2 word") {
			return false, nil
		}
		return true, f.SetWordCount(2)
	}},
	{"longer than", func(phrase string, f *Filter) (bool, error) {
		m := longerThanRe.FindStringSubmatch(phrase)
		if m == nil {
			return false, nil
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return false, fmt.Errorf("parse length %q: %w", m[1], domain.ErrUnparseableQuery)
		}
		return true, f.SetMinLength(n + 1)
	}},
	{"shorter than", func(phrase string, f *Filter) (bool, error) {
		m := shorterThanRe.FindStringSubmatch(phrase)
		if m == nil {
			return false, nil
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return false, fmt.Errorf("parse length %q: %w", m[1], domain.ErrUnparseableQuery)
		}
		// "shorter than N" means at most N-1 characters; clamp at zero.
		return true, f.SetMaxLength(max(n-1, 0))
	}},
	{"first vowel", func(phrase string, f *Filter) (bool, error) {
		if !strings.Contains(phrase, "first vowel") {
			return false, nil
		}
		// "the first vowel" resolves literally to the character a.
		return true, f.SetContainsCharacter("a")
	}},
	{"contains letter", func(phrase string, f *Filter) (bool, error) {
		m := containsLetterRe.FindStringSubmatch(phrase)
		if m == nil {
			return false, nil
		}
		return true, f.SetContainsCharacter(m[1])
	}},
}

// ParsePhrase translates a free-text phrase into the canonical Filter by
// applying the fixed rule table against the lowercased input. It fails
// with ErrUnparseableQuery when no rule fires and ErrConflictingFilters
// when two rules set the same clause to different values.
func ParsePhrase(phrase string) (Filter, error) {
	lower := strings.ToLower(phrase)

	var f Filter
	matched := false
	for _, r := range rules {
		ok, err := r.apply(lower, &f)
		if err != nil {
			return Filter{}, fmt.Errorf("rule %q: %w", r.name, err)
		}
		if ok {
			matched = true
		}
	}

	if !matched {
		return Filter{}, fmt.Errorf("no rule matched %q: %w", phrase, domain.ErrUnparseableQuery)
	}
	return f, nil
}
