// Package query defines the canonical record filter and the two
// translators that produce it: structured query parameters and the
// fixed-vocabulary natural-language parser.
package query

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/calder-cloud/strindex/internal/domain"
)

// Filter is the canonical, validated representation of "which records to
// return". All clauses are optional and combine with logical AND. It is
// the single structure both translators produce and the repository
// consumes, regardless of where the clauses originated.
type Filter struct {
	isPalindrome      *bool
	minLength         *int
	maxLength         *int
	wordCount         *int
	containsCharacter *string
}

// SetIsPalindrome sets the palindrome clause. Re-assigning a different
// value is a conflict.
func (f *Filter) SetIsPalindrome(v bool) error {
	if f.isPalindrome != nil && *f.isPalindrome != v {
		return fmt.Errorf("is_palindrome already set to %v: %w", *f.isPalindrome, domain.ErrConflictingFilters)
	}
	f.isPalindrome = &v
	return nil
}

// SetMinLength sets the minimum-length clause (inclusive).
func (f *Filter) SetMinLength(n int) error {
	if n < 0 {
		return fmt.Errorf("min_length must be non-negative, got %d: %w", n, domain.ErrInvalidFilter)
	}
	if f.minLength != nil && *f.minLength != n {
		return fmt.Errorf("min_length already set to %d: %w", *f.minLength, domain.ErrConflictingFilters)
	}
	f.minLength = &n
	return nil
}

// SetMaxLength sets the maximum-length clause (inclusive).
func (f *Filter) SetMaxLength(n int) error {
	if n < 0 {
		return fmt.Errorf("max_length must be non-negative, got %d: %w", n, domain.ErrInvalidFilter)
	}
	if f.maxLength != nil && *f.maxLength != n {
		return fmt.Errorf("max_length already set to %d: %w", *f.maxLength, domain.ErrConflictingFilters)
	}
	f.maxLength = &n
	return nil
}

// SetWordCount sets the exact word-count clause.
func (f *Filter) SetWordCount(n int) error {
	if n < 0 {
		return fmt.Errorf("word_count must be non-negative, got %d: %w", n, domain.ErrInvalidFilter)
	}
	if f.wordCount != nil && *f.wordCount != n {
		return fmt.Errorf("word_count already set to %d: %w", *f.wordCount, domain.ErrConflictingFilters)
	}
	f.wordCount = &n
	return nil
}

// SetContainsCharacter sets the character-membership clause. The value
// must be exactly one character and is matched case-sensitively against
// the raw stored value.
func (f *Filter) SetContainsCharacter(ch string) error {
	if utf8.RuneCountInString(ch) != 1 {
		return fmt.Errorf("contains_character must be a single character, got %q: %w", ch, domain.ErrInvalidFilter)
	}
	if f.containsCharacter != nil && *f.containsCharacter != ch {
		return fmt.Errorf(
			"contains_character already set to %q: %w", *f.containsCharacter, domain.ErrConflictingFilters,
		)
	}
	f.containsCharacter = &ch
	return nil
}

// IsPalindrome returns the palindrome clause, if set.
func (f Filter) IsPalindrome() (bool, bool) {
	if f.isPalindrome == nil {
		return false, false
	}
	return *f.isPalindrome, true
}

// MinLength returns the minimum-length clause, if set.
func (f Filter) MinLength() (int, bool) {
	if f.minLength == nil {
		return 0, false
	}
	return *f.minLength, true
}

// MaxLength returns the maximum-length clause, if set.
func (f Filter) MaxLength() (int, bool) {
	if f.maxLength == nil {
		return 0, false
	}
	return *f.maxLength, true
}

// WordCount returns the exact word-count clause, if set.
func (f Filter) WordCount() (int, bool) {
	if f.wordCount == nil {
		return 0, false
	}
	return *f.wordCount, true
}

// ContainsCharacter returns the character-membership clause, if set.
func (f Filter) ContainsCharacter() (string, bool) {
	if f.containsCharacter == nil {
		return "", false
	}
	return *f.containsCharacter, true
}

// IsEmpty reports whether no clause is set.
func (f Filter) IsEmpty() bool {
	return f.isPalindrome == nil && f.minLength == nil && f.maxLength == nil &&
		f.wordCount == nil && f.containsCharacter == nil
}

// Clauses returns the set clauses keyed by their wire names, for response
// envelopes ("filters_applied", "parsed_filters").
func (f Filter) Clauses() map[string]any {
	m := make(map[string]any)
	if f.isPalindrome != nil {
		m["is_palindrome"] = *f.isPalindrome
	}
	if f.minLength != nil {
		m["min_length"] = *f.minLength
	}
	if f.maxLength != nil {
		m["max_length"] = *f.maxLength
	}
	if f.wordCount != nil {
		m["word_count"] = *f.wordCount
	}
	if f.containsCharacter != nil {
		m["contains_character"] = *f.containsCharacter
	}
	return m
}

// Params carries raw, untyped filter parameters as they arrive on the
// query string. Empty fields mean the clause is absent.
type Params struct {
	IsPalindrome      string
	MinLength         string
	MaxLength         string
	WordCount         string
	ContainsCharacter string
}

// ParseParams validates structured parameters and builds the canonical
// Filter. Malformed values fail with ErrInvalidFilter.
func ParseParams(p Params) (Filter, error) {
	var f Filter

	if p.IsPalindrome != "" {
		v, err := strconv.ParseBool(p.IsPalindrome)
		if err != nil {
			return Filter{}, fmt.Errorf("is_palindrome must be a boolean, got %q: %w",
				p.IsPalindrome, domain.ErrInvalidFilter)
		}
		if err := f.SetIsPalindrome(v); err != nil {
			return Filter{}, err
		}
	}

	if err := parseIntParam(p.MinLength, "min_length", f.SetMinLength); err != nil {
		return Filter{}, err
	}
	if err := parseIntParam(p.MaxLength, "max_length", f.SetMaxLength); err != nil {
		return Filter{}, err
	}
	if err := parseIntParam(p.WordCount, "word_count", f.SetWordCount); err != nil {
		return Filter{}, err
	}

	if p.ContainsCharacter != "" {
		if err := f.SetContainsCharacter(p.ContainsCharacter); err != nil {
			return Filter{}, err
		}
	}

	return f, nil
}

func parseIntParam(raw, name string, set func(int) error) error {
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s must be an integer, got %q: %w", name, raw, domain.ErrInvalidFilter)
	}
	return set(n)
}
