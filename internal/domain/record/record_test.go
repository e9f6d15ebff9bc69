package record

import (
	"testing"
	"time"

	"github.com/calder-cloud/strindex/internal/domain/analysis"
)

func TestNew_IDMatchesHash(t *testing.T) {
	rec := New("racecar")

	if rec.ID() != analysis.Hash("racecar") {
		t.Errorf("id must equal the value hash, got %s", rec.ID())
	}
	if rec.ID() != rec.Properties().SHA256Hash {
		t.Error("id and sha256_hash property must carry the same digest")
	}
	if rec.Value() != "racecar" {
		t.Errorf("expected value 'racecar', got %q", rec.Value())
	}
	if rec.CreatedAt().IsZero() {
		t.Error("createdAt must be set")
	}
	if rec.CreatedAt().Location() != time.UTC {
		t.Error("createdAt must be UTC")
	}
}

func TestNew_DeterministicID(t *testing.T) {
	a := New("same input")
	b := New("same input")
	if a.ID() != b.ID() {
		t.Errorf("re-analyzing the same value must yield the same id: %s != %s", a.ID(), b.ID())
	}
}

func TestReconstruct_NoReanalysis(t *testing.T) {
	props := analysis.Analyze("hello world")
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	rec := Reconstruct(props.SHA256Hash, "hello world", props, created)

	if rec.ID() != props.SHA256Hash {
		t.Errorf("unexpected id: %s", rec.ID())
	}
	if !rec.CreatedAt().Equal(created) {
		t.Errorf("expected stored createdAt, got %v", rec.CreatedAt())
	}
	if rec.Properties().WordCount != 2 {
		t.Errorf("expected word count 2, got %d", rec.Properties().WordCount)
	}
}
