package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/calder-cloud/strindex/internal/domain"
	"github.com/calder-cloud/strindex/internal/domain/query"
	domrec "github.com/calder-cloud/strindex/internal/domain/record"
	"github.com/calder-cloud/strindex/internal/metrics"
	healthuc "github.com/calder-cloud/strindex/internal/usecase/health"
	stringsuc "github.com/calder-cloud/strindex/internal/usecase/strings"
	"github.com/calder-cloud/strindex/internal/version"
)

// Error response codes.
const (
	codeBadRequest         = "bad_request"
	codeInvalidInput       = "invalid_input"
	codeNotFound           = "not_found"
	codeAlreadyExists      = "already_exists"
	codeInvalidFilter      = "invalid_filter"
	codeUnparseableQuery   = "unparseable_query"
	codeConflictingFilters = "conflicting_filters"
	codeInternalError      = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the string store over HTTP.
type Server struct {
	strings       *stringsuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(strings *stringsuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		strings: strings,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeInvalidInput),
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, codeInvalidFilter),
		sentinelHandler(domain.ErrConflictingFilters, http.StatusUnprocessableEntity, codeConflictingFilters),
		sentinelHandler(domain.ErrUnparseableQuery, http.StatusBadRequest, codeUnparseableQuery),
	}
	return s
}

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.apiInfo)
	r.Post("/strings", s.createString)
	r.Get("/strings", s.listStrings)
	r.Get("/strings/filter-by-natural-language", s.queryByNaturalLanguage)
	r.Get("/strings/{value}", s.getString)
	r.Delete("/strings/{value}", s.deleteString)
	r.Get("/health", s.healthCheck)
	r.Get("/metrics", s.metricsHandler)
}

// apiInfo handles GET /.
func (s *Server) apiInfo(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"service": "strindex",
		"version": version.Version,
		"endpoints": []string{
			"POST /strings",
			"GET /strings",
			"GET /strings/{value}",
			"GET /strings/filter-by-natural-language",
			"DELETE /strings/{value}",
			"GET /health",
			"GET /metrics",
		},
	}
	if count, err := s.strings.Count(r.Context()); err == nil {
		resp["total_strings"] = count
	}
	writeJSON(w, http.StatusOK, resp)
}

// createString handles POST /strings.
func (s *Server) createString(w http.ResponseWriter, r *http.Request) {
	var req createStringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Value == nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "Field \"value\" is required")
		return
	}

	rec, err := s.strings.Create(r.Context(), *req.Value)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			metrics.StringsIngestedTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.StringsIngestedTotal.WithLabelValues("error").Inc()
		}
		s.handleDomainError(w, err)
		return
	}

	metrics.StringsIngestedTotal.WithLabelValues("created").Inc()
	w.Header().Set("Location", "/strings/"+url.PathEscape(rec.Value()))
	writeJSON(w, http.StatusCreated, recordToResponse(&rec))
}

// getString handles GET /strings/{value}.
func (s *Server) getString(w http.ResponseWriter, r *http.Request) {
	value, err := url.PathUnescape(chi.URLParam(r, "value"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid value encoding")
		return
	}

	rec, err := s.strings.GetByValue(r.Context(), value)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recordToResponse(&rec))
}

// listStrings handles GET /strings.
func (s *Server) listStrings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := query.ParseParams(query.Params{
		IsPalindrome:      q.Get("is_palindrome"),
		MinLength:         q.Get("min_length"),
		MaxLength:         q.Get("max_length"),
		WordCount:         q.Get("word_count"),
		ContainsCharacter: q.Get("contains_character"),
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	recs, err := s.strings.List(r.Context(), f)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Data:           recordsToResponses(recs),
		Count:          len(recs),
		FiltersApplied: f.Clauses(),
	})
}

// queryByNaturalLanguage handles GET /strings/filter-by-natural-language.
func (s *Server) queryByNaturalLanguage(w http.ResponseWriter, r *http.Request) {
	phrase := r.URL.Query().Get("query")
	if phrase == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Query parameter \"query\" is required")
		return
	}

	recs, f, err := s.strings.Query(r.Context(), phrase)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflictingFilters):
			metrics.NLQueriesTotal.WithLabelValues("conflicting").Inc()
		case errors.Is(err, domain.ErrUnparseableQuery):
			metrics.NLQueriesTotal.WithLabelValues("unparseable").Inc()
		}
		s.handleDomainError(w, err)
		return
	}

	metrics.NLQueriesTotal.WithLabelValues("parsed").Inc()
	writeJSON(w, http.StatusOK, nlQueryResponse{
		Data:  recordsToResponses(recs),
		Count: len(recs),
		InterpretedQuery: interpretedQuery{
			Original:      phrase,
			ParsedFilters: f.Clauses(),
		},
	})
}

// deleteString handles DELETE /strings/{value}.
func (s *Server) deleteString(w http.ResponseWriter, r *http.Request) {
	value, err := url.PathUnescape(chi.URLParam(r, "value"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid value encoding")
		return
	}

	if err := s.strings.Delete(r.Context(), value); err != nil {
		s.handleDomainError(w, err)
		return
	}

	metrics.StringsDeletedTotal.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// metricsHandler handles GET /metrics.
func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// --- Wire types ---

type createStringRequest struct {
	Value *string `json:"value"`
}

type propertiesResponse struct {
	Length                int             `json:"length"`
	IsPalindrome          bool            `json:"is_palindrome"`
	UniqueCharacters      int             `json:"unique_characters"`
	WordCount             int             `json:"word_count"`
	SHA256Hash            string          `json:"sha256_hash"`
	CharacterFrequencyMap json.RawMessage `json:"character_frequency_map"`
}

type stringResponse struct {
	ID         string             `json:"id"`
	Value      string             `json:"value"`
	Properties propertiesResponse `json:"properties"`
	CreatedAt  time.Time          `json:"created_at"`
}

type listResponse struct {
	Data           []stringResponse `json:"data"`
	Count          int              `json:"count"`
	FiltersApplied map[string]any   `json:"filters_applied"`
}

type interpretedQuery struct {
	Original      string         `json:"original"`
	ParsedFilters map[string]any `json:"parsed_filters"`
}

type nlQueryResponse struct {
	Data             []stringResponse `json:"data"`
	Count            int              `json:"count"`
	InterpretedQuery interpretedQuery `json:"interpreted_query"`
}

type healthResponse struct {
	Status string                           `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func recordToResponse(rec *domrec.StringRecord) stringResponse {
	props := rec.Properties()
	freq, err := json.Marshal(props.Frequency)
	if err != nil {
		freq = []byte("{}")
	}
	return stringResponse{
		ID:    rec.ID(),
		Value: rec.Value(),
		Properties: propertiesResponse{
			Length:                props.Length,
			IsPalindrome:          props.IsPalindrome,
			UniqueCharacters:      props.UniqueCharacters,
			WordCount:             props.WordCount,
			SHA256Hash:            props.SHA256Hash,
			CharacterFrequencyMap: freq,
		},
		CreatedAt: rec.CreatedAt(),
	}
}

func recordsToResponses(recs []domrec.StringRecord) []stringResponse {
	items := make([]stringResponse, len(recs))
	for i := range recs {
		items[i] = recordToResponse(&recs[i])
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrInvalidInput,
		domain.ErrInvalidFilter,
		domain.ErrConflictingFilters,
		domain.ErrUnparseableQuery,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
