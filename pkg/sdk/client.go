package strindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

type createRequest struct {
	Value string `json:"value"`
}

// Client is the strindex HTTP API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CreateString submits a value for analysis and storage.
func (c *Client) CreateString(ctx context.Context, value string) (*StringRecord, error) {
	body, err := json.Marshal(createRequest{Value: value})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var rec StringRecord
	if err := c.do(ctx, http.MethodPost, "/strings", bytes.NewReader(body), http.StatusCreated, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetString looks up a stored string by its exact value.
func (c *Client) GetString(ctx context.Context, value string) (*StringRecord, error) {
	var rec StringRecord
	path := "/strings/" + url.PathEscape(value)
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListStrings returns stored strings matching the given filters.
func (c *Client) ListStrings(ctx context.Context, params ListParams) (*ListResult, error) {
	var res ListResult
	path := "/strings"
	if q := params.encode(); q != "" {
		path += "?" + q
	}
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// QueryStrings translates a natural-language phrase server-side and
// returns matching strings together with the interpreted filters.
func (c *Client) QueryStrings(ctx context.Context, phrase string) (*QueryResult, error) {
	var res QueryResult
	path := "/strings/filter-by-natural-language?query=" + url.QueryEscape(phrase)
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteString removes a stored string by its exact value.
func (c *Client) DeleteString(ctx context.Context, value string) error {
	path := "/strings/" + url.PathEscape(value)
	return c.do(ctx, http.MethodDelete, path, nil, http.StatusNoContent, nil)
}

// Health returns the server health report.
func (c *Client) Health(ctx context.Context) (*HealthReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// /health reports via body on both 200 and 503.
	var report HealthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode health response: %w", err)
	}
	return &report, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, wantStatus int, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		return apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// apiError builds an *Error from a non-success response.
func apiError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || len(data) == 0 {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	var wire struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if jsonErr := json.Unmarshal(data, &wire); jsonErr != nil || wire.Code == "" {
		apiErr.Message = strconv.Quote(string(data))
		return apiErr
	}

	apiErr.Code = wire.Code
	apiErr.Message = wire.Message
	return apiErr
}
