package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FrequencyMap counts character occurrences while preserving the order in
// which each character first appeared. Plain Go maps would lose that order
// on iteration and json.Marshal would re-sort the keys, so both directions
// of JSON conversion are implemented by hand.
type FrequencyMap struct {
	keys   []string
	counts map[string]int
}

// NewFrequencyMap returns an empty frequency map.
func NewFrequencyMap() FrequencyMap {
	return FrequencyMap{counts: make(map[string]int)}
}

// Add tallies one occurrence of the character.
func (m *FrequencyMap) Add(ch string) {
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	if _, seen := m.counts[ch]; !seen {
		m.keys = append(m.keys, ch)
	}
	m.counts[ch]++
}

// Count returns the occurrence count for the character (0 if absent).
func (m FrequencyMap) Count(ch string) int { return m.counts[ch] }

// Len returns the number of distinct characters.
func (m FrequencyMap) Len() int { return len(m.keys) }

// Keys returns the characters in first-occurrence order.
func (m FrequencyMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Total returns the sum of all counts, which equals the analyzed length.
func (m FrequencyMap) Total() int {
	sum := 0
	for _, c := range m.counts {
		sum += c
	}
	return sum
}

// Equal reports whether both maps hold the same characters, counts, and order.
func (m FrequencyMap) Equal(other FrequencyMap) bool {
	if len(m.keys) != len(other.keys) {
		return false
	}
	for i, k := range m.keys {
		if other.keys[i] != k || other.counts[k] != m.counts[k] {
			return false
		}
	}
	return true
}

// MarshalJSON writes a JSON object with keys in first-occurrence order.
func (m FrequencyMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal frequency key: %w", err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", m.counts[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object preserving key order via token streaming.
func (m *FrequencyMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read frequency map: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("frequency map must be a JSON object, got %v", tok)
	}

	m.keys = nil
	m.counts = make(map[string]int)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read frequency key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("frequency key must be a string, got %v", keyTok)
		}

		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("read frequency count for %q: %w", key, err)
		}

		if _, seen := m.counts[key]; !seen {
			m.keys = append(m.keys, key)
		}
		m.counts[key] = count
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("read frequency map close: %w", err)
	}
	return nil
}
