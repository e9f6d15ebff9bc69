package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/calder-cloud/strindex/internal/domain"
	"github.com/calder-cloud/strindex/internal/domain/query"
	domrec "github.com/calder-cloud/strindex/internal/domain/record"
	healthuc "github.com/calder-cloud/strindex/internal/usecase/health"
	stringsuc "github.com/calder-cloud/strindex/internal/usecase/strings"
)

// memRepo is an in-memory stringsuc.Repository for handler tests.
type memRepo struct {
	mu   sync.Mutex
	recs map[string]domrec.StringRecord // keyed by record ID
}

func newMemRepo() *memRepo {
	return &memRepo{recs: make(map[string]domrec.StringRecord)}
}

func (m *memRepo) Insert(_ context.Context, rec *domrec.StringRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[rec.ID()]; ok {
		return domain.ErrAlreadyExists
	}
	m.recs[rec.ID()] = *rec
	return nil
}

func (m *memRepo) GetByValue(_ context.Context, value string) (domrec.StringRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.recs {
		if rec.Value() == value {
			return rec, nil
		}
	}
	return domrec.StringRecord{}, domain.ErrNotFound
}

func (m *memRepo) List(_ context.Context, f query.Filter) ([]domrec.StringRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domrec.StringRecord
	for _, rec := range m.recs {
		if matches(rec, f) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func matches(rec domrec.StringRecord, f query.Filter) bool {
	props := rec.Properties()
	if v, ok := f.IsPalindrome(); ok && props.IsPalindrome != v {
		return false
	}
	if n, ok := f.MinLength(); ok && props.Length < n {
		return false
	}
	if n, ok := f.MaxLength(); ok && props.Length > n {
		return false
	}
	if n, ok := f.WordCount(); ok && props.WordCount != n {
		return false
	}
	if ch, ok := f.ContainsCharacter(); ok && !strings.Contains(rec.Value(), ch) {
		return false
	}
	return true
}

func (m *memRepo) DeleteByValue(_ context.Context, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, rec := range m.recs {
		if rec.Value() == value {
			delete(m.recs, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memRepo) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs), nil
}

type okPinger struct{ err error }

func (p *okPinger) Ping(_ context.Context) error { return p.err }

func newTestRouter(repo stringsuc.Repository, pinger healthuc.DBPinger) http.Handler {
	if pinger == nil {
		pinger = &okPinger{}
	}
	srv := NewServer(
		stringsuc.New(repo),
		healthuc.New(pinger, nil, ""),
		zap.NewNop(),
	)
	r := chi.NewRouter()
	srv.Routes(r)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// --- POST /strings ---

func TestCreateString_Created(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	rr := doRequest(t, h, "POST", "/strings", `{"value":"racecar"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp stringResponse
	decodeBody(t, rr, &resp)
	if resp.Value != "racecar" {
		t.Errorf("expected value 'racecar', got %q", resp.Value)
	}
	if resp.ID != resp.Properties.SHA256Hash {
		t.Error("expected id to equal sha256_hash")
	}
	if !resp.Properties.IsPalindrome || resp.Properties.Length != 7 {
		t.Errorf("unexpected properties: %+v", resp.Properties)
	}
	if resp.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
	if loc := rr.Header().Get("Location"); loc != "/strings/racecar" {
		t.Errorf("unexpected Location header %q", loc)
	}
}

func TestCreateString_FrequencyMapOrder(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	rr := doRequest(t, h, "POST", "/strings", `{"value":"zza"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}

	var resp stringResponse
	decodeBody(t, rr, &resp)
	want := `{"z":2,"a":1}`
	if string(resp.Properties.CharacterFrequencyMap) != want {
		t.Errorf("expected frequency map %s, got %s", want, resp.Properties.CharacterFrequencyMap)
	}
}

func TestCreateString_Duplicate(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	doRequest(t, h, "POST", "/strings", `{"value":"hello"}`)
	rr := doRequest(t, h, "POST", "/strings", `{"value":"hello"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}

	var resp errorResponse
	decodeBody(t, rr, &resp)
	if resp.Code != codeAlreadyExists {
		t.Errorf("expected code %q, got %q", codeAlreadyExists, resp.Code)
	}
	if resp.Message != domain.ErrAlreadyExists.Error() {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestCreateString_MissingValue(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	rr := doRequest(t, h, "POST", "/strings", `{"other":"field"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp errorResponse
	decodeBody(t, rr, &resp)
	if resp.Code != codeInvalidInput {
		t.Errorf("expected code %q, got %q", codeInvalidInput, resp.Code)
	}
}

func TestCreateString_EmptyValueAllowed(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	rr := doRequest(t, h, "POST", "/strings", `{"value":""}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 for empty string, got %d", rr.Code)
	}

	var resp stringResponse
	decodeBody(t, rr, &resp)
	if resp.Properties.Length != 0 || !resp.Properties.IsPalindrome {
		t.Errorf("unexpected properties for empty string: %+v", resp.Properties)
	}
}

func TestCreateString_MalformedBody(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	rr := doRequest(t, h, "POST", "/strings", `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

// --- GET /strings/{value} ---

func TestGetString_Found(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	doRequest(t, h, "POST", "/strings", `{"value":"hello world"}`)
	rr := doRequest(t, h, "GET", "/strings/hello%20world", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp stringResponse
	decodeBody(t, rr, &resp)
	if resp.Value != "hello world" {
		t.Errorf("expected value 'hello world', got %q", resp.Value)
	}
	if resp.Properties.WordCount != 2 {
		t.Errorf("expected word_count 2, got %d", resp.Properties.WordCount)
	}
}

func TestGetString_NotFound(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	rr := doRequest(t, h, "GET", "/strings/missing", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}

	var resp errorResponse
	decodeBody(t, rr, &resp)
	if resp.Code != codeNotFound {
		t.Errorf("expected code %q, got %q", codeNotFound, resp.Code)
	}
}

// --- GET /strings ---

func TestListStrings_NoFilter(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	doRequest(t, h, "POST", "/strings", `{"value":"pop"}`)
	doRequest(t, h, "POST", "/strings", `{"value":"hello world"}`)

	rr := doRequest(t, h, "GET", "/strings", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp listResponse
	decodeBody(t, rr, &resp)
	if resp.Count != 2 || len(resp.Data) != 2 {
		t.Errorf("expected 2 results, got count=%d len=%d", resp.Count, len(resp.Data))
	}
	if len(resp.FiltersApplied) != 0 {
		t.Errorf("expected no filters applied, got %v", resp.FiltersApplied)
	}
}

func TestListStrings_Filtered(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	doRequest(t, h, "POST", "/strings", `{"value":"pop"}`)
	doRequest(t, h, "POST", "/strings", `{"value":"hello"}`)
	doRequest(t, h, "POST", "/strings", `{"value":"noon at noon"}`)

	rr := doRequest(t, h, "GET", "/strings?is_palindrome=true&word_count=1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp listResponse
	decodeBody(t, rr, &resp)
	if resp.Count != 1 {
		t.Fatalf("expected 1 result, got %d", resp.Count)
	}
	if resp.Data[0].Value != "pop" {
		t.Errorf("expected 'pop', got %q", resp.Data[0].Value)
	}
	if v, ok := resp.FiltersApplied["is_palindrome"]; !ok || v != true {
		t.Errorf("expected is_palindrome in filters_applied, got %v", resp.FiltersApplied)
	}
}

func TestListStrings_InvalidParam(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	rr := doRequest(t, h, "GET", "/strings?min_length=abc", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp errorResponse
	decodeBody(t, rr, &resp)
	if resp.Code != codeInvalidFilter {
		t.Errorf("expected code %q, got %q", codeInvalidFilter, resp.Code)
	}
}

// --- GET /strings/filter-by-natural-language ---

func TestNLQuery_SingleWordPalindromes(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	doRequest(t, h, "POST", "/strings", `{"value":"pop"}`)
	doRequest(t, h, "POST", "/strings", `{"value":"hello"}`)
	doRequest(t, h, "POST", "/strings", `{"value":"noon at noon"}`)

	rr := doRequest(t, h, "GET",
		"/strings/filter-by-natural-language?query=all+single+word+palindromic+strings", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp nlQueryResponse
	decodeBody(t, rr, &resp)
	if resp.Count != 1 || resp.Data[0].Value != "pop" {
		t.Errorf("expected only 'pop', got %+v", resp.Data)
	}
	if resp.InterpretedQuery.Original != "all single word palindromic strings" {
		t.Errorf("unexpected original %q", resp.InterpretedQuery.Original)
	}
	pf := resp.InterpretedQuery.ParsedFilters
	if v, ok := pf["is_palindrome"]; !ok || v != true {
		t.Errorf("expected is_palindrome=true in parsed_filters, got %v", pf)
	}
	if v, ok := pf["word_count"]; !ok || v != float64(1) {
		t.Errorf("expected word_count=1 in parsed_filters, got %v", pf)
	}
}

func TestNLQuery_Unparseable(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	rr := doRequest(t, h, "GET",
		"/strings/filter-by-natural-language?query=purple+monkey+dishwasher", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp errorResponse
	decodeBody(t, rr, &resp)
	if resp.Code != codeUnparseableQuery {
		t.Errorf("expected code %q, got %q", codeUnparseableQuery, resp.Code)
	}
}

func TestNLQuery_Conflicting(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	rr := doRequest(t, h, "GET",
		"/strings/filter-by-natural-language?query=single+word+strings+and+two+word+strings", "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	var resp errorResponse
	decodeBody(t, rr, &resp)
	if resp.Code != codeConflictingFilters {
		t.Errorf("expected code %q, got %q", codeConflictingFilters, resp.Code)
	}
}

func TestNLQuery_MissingQueryParam(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	rr := doRequest(t, h, "GET", "/strings/filter-by-natural-language", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

// --- DELETE /strings/{value} ---

func TestDeleteString_NoContent(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	doRequest(t, h, "POST", "/strings", `{"value":"hello"}`)
	rr := doRequest(t, h, "DELETE", "/strings/hello", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}

	rr = doRequest(t, h, "GET", "/strings/hello", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rr.Code)
	}
}

func TestDeleteString_NotFound(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	rr := doRequest(t, h, "DELETE", "/strings/missing", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

// --- GET / ---

func TestAPIInfo(t *testing.T) {
	h := newTestRouter(newMemRepo(), nil)

	rr := doRequest(t, h, "GET", "/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp map[string]any
	decodeBody(t, rr, &resp)
	if resp["service"] != "strindex" {
		t.Errorf("expected service 'strindex', got %v", resp["service"])
	}
	if _, ok := resp["total_strings"]; !ok {
		t.Error("expected total_strings in API info")
	}
}

// --- GET /health ---

func TestHealth_OK(t *testing.T) {
	h := newTestRouter(newMemRepo(), &okPinger{})

	rr := doRequest(t, h, "GET", "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp healthResponse
	decodeBody(t, rr, &resp)
	if resp.Status != string(healthuc.Healthy) {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
}

func TestHealth_Degraded(t *testing.T) {
	h := newTestRouter(newMemRepo(), &okPinger{err: errors.New("down")})

	rr := doRequest(t, h, "GET", "/health", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

// --- Storage failure ---

type failingRepo struct{ *memRepo }

func (f *failingRepo) List(_ context.Context, _ query.Filter) ([]domrec.StringRecord, error) {
	return nil, errors.New("connection reset")
}

func TestListStrings_StorageErrorIs500(t *testing.T) {
	repo := &failingRepo{memRepo: newMemRepo()}
	h := newTestRouter(repo, nil)

	rr := doRequest(t, h, "GET", "/strings", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	var resp errorResponse
	decodeBody(t, rr, &resp)
	if resp.Code != codeInternalError {
		t.Errorf("expected code %q, got %q", codeInternalError, resp.Code)
	}
	if resp.Message != "internal error" {
		t.Errorf("internal details must not leak, got %q", resp.Message)
	}
}
