// Package analysis computes the derived properties of a string: length,
// palindrome status, unique-character count, word count, content hash,
// and a character-frequency table. All functions are pure.
package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// Analysis is the full derived property set of a string value.
type Analysis struct {
	Length           int
	IsPalindrome     bool
	UniqueCharacters int
	WordCount        int
	SHA256Hash       string
	Frequency        FrequencyMap
}

// Analyze computes every property of value in a deterministic way.
// The empty string is valid: length 0, palindrome, no words, empty map.
func Analyze(value string) Analysis {
	runes := []rune(value)

	freq := NewFrequencyMap()
	for _, r := range runes {
		freq.Add(string(r))
	}

	return Analysis{
		Length:           len(runes),
		IsPalindrome:     IsPalindrome(value),
		UniqueCharacters: freq.Len(),
		WordCount:        len(strings.Fields(value)),
		SHA256Hash:       Hash(value),
		Frequency:        freq,
	}
}

// Hash returns the hex-encoded SHA-256 digest of value. It doubles as the
// record identifier, so it must stay stable across calls and restarts.
func Hash(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// IsPalindrome tests the normalized form of value: case-folded with all
// non-alphanumeric characters removed. An empty normalized sequence is
// trivially a palindrome.
func IsPalindrome(value string) bool {
	normalized := make([]rune, 0, len(value))
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			normalized = append(normalized, unicode.ToLower(r))
		}
	}
	for i, j := 0, len(normalized)-1; i < j; i, j = i+1, j-1 {
		if normalized[i] != normalized[j] {
			return false
		}
	}
	return true
}
