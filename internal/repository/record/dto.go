package record

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/calder-cloud/strindex/internal/domain/analysis"
	domrec "github.com/calder-cloud/strindex/internal/domain/record"
)

// recordDoc is the stored JSON shape. The sha256_hash field duplicates the
// key-embedded id; it is kept for schema compatibility with existing
// deployments of the strings table.
type recordDoc struct {
	Value            string                 `json:"value"`
	Length           int                    `json:"length"`
	IsPalindrome     bool                   `json:"is_palindrome"`
	UniqueCharacters int                    `json:"unique_characters"`
	WordCount        int                    `json:"word_count"`
	SHA256Hash       string                 `json:"sha256_hash"`
	Frequency        analysis.FrequencyMap  `json:"character_frequency_map"`
	CreatedAt        time.Time              `json:"created_at"`
}

func buildDoc(rec *domrec.StringRecord) recordDoc {
	props := rec.Properties()
	return recordDoc{
		Value:            rec.Value(),
		Length:           props.Length,
		IsPalindrome:     props.IsPalindrome,
		UniqueCharacters: props.UniqueCharacters,
		WordCount:        props.WordCount,
		SHA256Hash:       props.SHA256Hash,
		Frequency:        props.Frequency,
		CreatedAt:        rec.CreatedAt(),
	}
}

func parseDoc(data []byte) (domrec.StringRecord, error) {
	var doc recordDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return domrec.StringRecord{}, fmt.Errorf("unmarshal record: %w", err)
	}

	props := analysis.Analysis{
		Length:           doc.Length,
		IsPalindrome:     doc.IsPalindrome,
		UniqueCharacters: doc.UniqueCharacters,
		WordCount:        doc.WordCount,
		SHA256Hash:       doc.SHA256Hash,
		Frequency:        doc.Frequency,
	}
	return domrec.Reconstruct(doc.SHA256Hash, doc.Value, props, doc.CreatedAt), nil
}
