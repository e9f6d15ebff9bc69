package strindex

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Error is a typed API error with the server's code and message.
// Use errors.As() to inspect the status code.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("strindex: %s (%d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("strindex: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether the error is a 404 response.
func (e *Error) IsNotFound() bool { return e.StatusCode == 404 }

// IsConflict reports whether the error is a 409 response.
func (e *Error) IsConflict() bool { return e.StatusCode == 409 }

// Properties holds the derived properties of a stored string.
type Properties struct {
	Length                int            `json:"length"`
	IsPalindrome          bool           `json:"is_palindrome"`
	UniqueCharacters      int            `json:"unique_characters"`
	WordCount             int            `json:"word_count"`
	SHA256Hash            string         `json:"sha256_hash"`
	CharacterFrequencyMap map[string]int `json:"character_frequency_map"`
}

// StringRecord is a stored string with its analysis.
type StringRecord struct {
	ID         string     `json:"id"`
	Value      string     `json:"value"`
	Properties Properties `json:"properties"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ListParams are optional structured filters for ListStrings.
// Nil fields are omitted.
type ListParams struct {
	IsPalindrome      *bool
	MinLength         *int
	MaxLength         *int
	WordCount         *int
	ContainsCharacter *string
}

func (p ListParams) encode() string {
	q := url.Values{}
	if p.IsPalindrome != nil {
		q.Set("is_palindrome", strconv.FormatBool(*p.IsPalindrome))
	}
	if p.MinLength != nil {
		q.Set("min_length", strconv.Itoa(*p.MinLength))
	}
	if p.MaxLength != nil {
		q.Set("max_length", strconv.Itoa(*p.MaxLength))
	}
	if p.WordCount != nil {
		q.Set("word_count", strconv.Itoa(*p.WordCount))
	}
	if p.ContainsCharacter != nil {
		q.Set("contains_character", *p.ContainsCharacter)
	}
	return q.Encode()
}

// ListResult is the response of ListStrings.
type ListResult struct {
	Data           []StringRecord `json:"data"`
	Count          int            `json:"count"`
	FiltersApplied map[string]any `json:"filters_applied"`
}

// InterpretedQuery reports how a natural-language phrase was translated.
type InterpretedQuery struct {
	Original      string         `json:"original"`
	ParsedFilters map[string]any `json:"parsed_filters"`
}

// QueryResult is the response of QueryStrings.
type QueryResult struct {
	Data             []StringRecord   `json:"data"`
	Count            int              `json:"count"`
	InterpretedQuery InterpretedQuery `json:"interpreted_query"`
}

// HealthReport is the response of Health.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
