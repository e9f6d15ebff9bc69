package strings

import (
	"context"
	"fmt"

	"github.com/calder-cloud/strindex/internal/domain/query"
	domrec "github.com/calder-cloud/strindex/internal/domain/record"
)

// Service handles string ingestion, lookup and filtered retrieval.
// All derived properties are computed at ingestion time; reads never
// re-analyze stored values.
type Service struct {
	repo Repository
}

// New creates a string service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create analyzes a value and persists the resulting record. A value
// that is already stored fails with domain.ErrAlreadyExists; the
// stored record is never overwritten.
func (s *Service) Create(ctx context.Context, value string) (domrec.StringRecord, error) {
	rec := domrec.New(value)
	if err := s.repo.Insert(ctx, &rec); err != nil {
		return domrec.StringRecord{}, fmt.Errorf("insert string: %w", err)
	}
	return rec, nil
}

// GetByValue looks up the record for an exact value.
func (s *Service) GetByValue(ctx context.Context, value string) (domrec.StringRecord, error) {
	rec, err := s.repo.GetByValue(ctx, value)
	if err != nil {
		return domrec.StringRecord{}, fmt.Errorf("get string: %w", err)
	}
	return rec, nil
}

// List returns all records matching the filter. An empty filter
// returns every stored record.
func (s *Service) List(ctx context.Context, f query.Filter) ([]domrec.StringRecord, error) {
	recs, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list strings: %w", err)
	}
	return recs, nil
}

// Query translates a natural-language phrase into a filter and runs
// it. The parsed filter is returned alongside the matches so callers
// can report how the phrase was interpreted.
func (s *Service) Query(ctx context.Context, phrase string) ([]domrec.StringRecord, query.Filter, error) {
	f, err := query.ParsePhrase(phrase)
	if err != nil {
		return nil, query.Filter{}, fmt.Errorf("parse query: %w", err)
	}
	recs, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, query.Filter{}, fmt.Errorf("list strings: %w", err)
	}
	return recs, f, nil
}

// Delete removes the record for an exact value.
func (s *Service) Delete(ctx context.Context, value string) error {
	if err := s.repo.DeleteByValue(ctx, value); err != nil {
		return fmt.Errorf("delete string: %w", err)
	}
	return nil
}

// Count returns the number of stored strings.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count strings: %w", err)
	}
	return n, nil
}
