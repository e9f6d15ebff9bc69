package analysis

import (
	"encoding/json"
	"testing"
)

func TestFrequencyMap_FirstOccurrenceOrder(t *testing.T) {
	m := NewFrequencyMap()
	for _, ch := range []string{"b", "a", "b", "c", "a"} {
		m.Add(ch)
	}

	keys := m.Keys()
	want := []string{"b", "a", "c"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("keys[%d]: expected %q, got %q", i, k, keys[i])
		}
	}
	if m.Count("b") != 2 || m.Count("a") != 2 || m.Count("c") != 1 {
		t.Errorf("unexpected counts: b=%d a=%d c=%d", m.Count("b"), m.Count("a"), m.Count("c"))
	}
}

func TestFrequencyMap_JSONRoundTripPreservesOrder(t *testing.T) {
	m := NewFrequencyMap()
	for _, ch := range []string{"z", " ", "a", "z"} {
		m.Add(ch)
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"z":2," ":1,"a":1}` {
		t.Errorf("expected insertion-ordered object, got %s", data)
	}

	var back FrequencyMap
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !m.Equal(back) {
		t.Errorf("round trip changed the map: %s", data)
	}
}

func TestFrequencyMap_EmptyJSON(t *testing.T) {
	m := NewFrequencyMap()
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("expected {}, got %s", data)
	}

	var back FrequencyMap
	if err := json.Unmarshal([]byte("{}"), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Len() != 0 {
		t.Errorf("expected empty map, got %d entries", back.Len())
	}
}

func TestFrequencyMap_UnmarshalRejectsNonObject(t *testing.T) {
	var m FrequencyMap
	if err := json.Unmarshal([]byte(`[1,2]`), &m); err == nil {
		t.Error("expected error for non-object JSON")
	}
}

func TestFrequencyMap_Equal(t *testing.T) {
	a := NewFrequencyMap()
	b := NewFrequencyMap()
	a.Add("x")
	a.Add("y")
	b.Add("y")
	b.Add("x")
	// Same counts, different first-occurrence order.
	if a.Equal(b) {
		t.Error("maps with different key order must not be equal")
	}
}
