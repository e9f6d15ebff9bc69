// Package record persists StringRecords as JSON documents keyed by the
// value's content hash, with an FT index over the filterable properties.
package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/calder-cloud/strindex/internal/db"
	"github.com/calder-cloud/strindex/internal/domain"
	"github.com/calder-cloud/strindex/internal/domain/analysis"
	"github.com/calder-cloud/strindex/internal/domain/query"
	domrec "github.com/calder-cloud/strindex/internal/domain/record"
)

const defaultPageSize = 256

// store is the consumer interface for record persistence (ISP).
type store interface {
	JSONSetNX(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) (int64, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements usecase/strings.Repository.
type Repo struct {
	store    store
	pageSize int
}

// New creates a record repository.
func New(s store) *Repo {
	return &Repo{store: s, pageSize: defaultPageSize}
}

// WithPageSize configures the internal FT.SEARCH page size used by List.
func (r *Repo) WithPageSize(n int) *Repo {
	if n > 0 {
		r.pageSize = n
	}
	return r
}

// EnsureIndex creates the FT index over the filterable record properties.
// Safe to call on every startup: an existing index is not an error.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def, err := db.NewIndex(indexName()).
		OnJSON().
		Prefix(keyPrefix()).
		NumericAs("$.length", "length").
		NumericAs("$.word_count", "word_count").
		TagAs("$.is_palindrome", "is_palindrome").
		Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return nil
}

// Insert stores a new record. The key embeds the content hash of the
// value, so the storage-level NX write doubles as the uniqueness
// constraint on value: a racing duplicate insert fails with
// domain.ErrAlreadyExists, never overwrites.
func (r *Repo) Insert(ctx context.Context, rec *domrec.StringRecord) error {
	data, err := json.Marshal(buildDoc(rec))
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	key := recordKey(rec.ID())
	if err := r.store.JSONSetNX(ctx, key, "$", data); err != nil {
		if errors.Is(err, db.ErrKeyExists) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// GetByValue returns the record for the exact (case-sensitive) value.
func (r *Repo) GetByValue(ctx context.Context, value string) (domrec.StringRecord, error) {
	key := recordKey(analysis.Hash(value))
	raw, err := r.store.JSONGet(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domrec.StringRecord{}, domain.ErrNotFound
		}
		return domrec.StringRecord{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return parseDoc(raw)
}

// List returns every record matching all clauses of the filter. Indexed
// clauses run on the search engine; contains_character is applied as a
// membership test on the raw value after fetching.
func (r *Repo) List(ctx context.Context, f query.Filter) ([]domrec.StringRecord, error) {
	q := buildFilterQuery(f)
	ch, filterChar := f.ContainsCharacter()

	var records []domrec.StringRecord
	for offset := 0; ; offset += r.pageSize {
		result, err := r.store.SearchList(ctx, indexName(), q, offset, r.pageSize, []string{"$"})
		if err != nil {
			return nil, fmt.Errorf("search list: %w", err)
		}
		if result == nil || len(result.Entries) == 0 {
			break
		}

		for _, entry := range result.Entries {
			rec, err := parseDoc([]byte(entry.Fields["$"]))
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", entry.Key, err)
			}
			if filterChar && !strings.Contains(rec.Value(), ch) {
				continue
			}
			records = append(records, rec)
		}

		if offset+r.pageSize >= result.Total {
			break
		}
	}

	return records, nil
}

// DeleteByValue removes the record for the exact value. A second delete of
// the same value fails with domain.ErrNotFound: DEL's removed-count makes
// the check atomic, no read-before-delete.
func (r *Repo) DeleteByValue(ctx context.Context, value string) error {
	key := recordKey(analysis.Hash(value))
	removed, err := r.store.Del(ctx, key)
	if err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	if removed == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count returns the total number of stored records.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, indexName(), "*")
	if err != nil {
		return 0, fmt.Errorf("search count: %w", err)
	}
	return n, nil
}

func keyPrefix() string {
	return domain.KeyPrefix + "string:"
}

func recordKey(id string) string {
	return keyPrefix() + id
}

func indexName() string {
	return domain.KeyPrefix + "strings:idx"
}

// IndexName returns the search index name used for stored strings.
func IndexName() string {
	return indexName()
}
