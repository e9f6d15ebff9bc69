// Package record defines the StringRecord aggregate: an analyzed string
// value together with its derived properties and creation timestamp.
package record

import (
	"time"

	"github.com/calder-cloud/strindex/internal/domain/analysis"
)

// StringRecord is the persisted record for one analyzed string value
// (immutable value object). Its identifier is the SHA-256 hash of the
// value, so identical values always map to the same record.
type StringRecord struct {
	id        string
	value     string
	props     analysis.Analysis
	createdAt time.Time
}

// New analyzes value and creates a StringRecord with createdAt set to now.
// The record id and the sha256_hash property carry the same digest.
func New(value string) StringRecord {
	props := analysis.Analyze(value)
	return StringRecord{
		id:        props.SHA256Hash,
		value:     value,
		props:     props,
		createdAt: time.Now().UTC(),
	}
}

// Reconstruct creates a StringRecord from stored fields without
// re-running the analyzer (storage hydration).
func Reconstruct(id, value string, props analysis.Analysis, createdAt time.Time) StringRecord {
	return StringRecord{id: id, value: value, props: props, createdAt: createdAt}
}

// ID returns the record identifier (hex SHA-256 of the value).
func (r *StringRecord) ID() string { return r.id }

// Value returns the original input string.
func (r *StringRecord) Value() string { return r.value }

// Properties returns the derived property set.
func (r *StringRecord) Properties() analysis.Analysis { return r.props }

// CreatedAt returns the insertion timestamp.
func (r *StringRecord) CreatedAt() time.Time { return r.createdAt }
