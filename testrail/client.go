package testrail

// Package testrail provides a client for the TestRail REST/JSON API. It
// covers reporting test results (single and batch) and reading back tests
// and runs. Every operation is a single synchronous round trip; there are
// no retries and no caching.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/rs/zerolog"

	"github.com/tmbridge/tmbridge/model"
)

// Doer issues a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// StatusError is returned when the API responds with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("testrail: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client talks to a TestRail instance over its REST/JSON API using HTTP
// Basic Auth. Configuration is fixed at construction.
type Client struct {
	logger  zerolog.Logger
	baseURL string
	email   string
	apiKey  string
	http    Doer
}

// Option is a function that configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used to issue requests.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.http = d
	}
}

// New creates a TestRail client for the given base URL and credentials.
func New(logger zerolog.Logger, baseURL, email, apiKey string, opts ...Option) *Client {
	c := &Client{
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		email:   email,
		apiKey:  apiKey,
		http:    http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// resultBody is the JSON body for add_result.
type resultBody struct {
	StatusID int    `json:"status_id"`
	Comment  string `json:"comment"`
	Elapsed  string `json:"elapsed,omitempty"`
}

// batchEntry is one element of the add_results body.
type batchEntry struct {
	TestID   int    `json:"test_id"`
	StatusID int    `json:"status_id"`
	Comment  string `json:"comment"`
	Elapsed  string `json:"elapsed,omitempty"`
}

// AddResult reports a single test result.
func (c *Client) AddResult(ctx context.Context, testID int, status model.Status, comment, elapsed string) (model.Response, error) {
	code, err := status.RestCode()
	if err != nil {
		return nil, err
	}

	body := resultBody{
		StatusID: code,
		Comment:  comment,
		Elapsed:  elapsed,
	}

	return c.post(ctx, fmt.Sprintf("add_result/%d", testID), body)
}

// AddResults reports multiple test results against a run in a single
// request. The results field preserves input order. The server decides how
// to handle individual entries; partial acceptance is only visible through
// the returned response, never inferred here.
func (c *Client) AddResults(ctx context.Context, runID int, results []model.Result) (model.Response, error) {
	entries := make([]batchEntry, 0, len(results))
	for _, r := range results {
		code, err := r.Status.RestCode()
		if err != nil {
			return nil, fmt.Errorf("test %d: %w", r.TestID, err)
		}
		entries = append(entries, batchEntry{
			TestID:   r.TestID,
			StatusID: code,
			Comment:  r.Comment,
			Elapsed:  r.Elapsed,
		})
	}

	body := map[string]any{"results": entries}

	return c.post(ctx, fmt.Sprintf("add_results/%d", runID), body)
}

// GetTest fetches a single test.
func (c *Client) GetTest(ctx context.Context, testID int) (model.Response, error) {
	return c.get(ctx, fmt.Sprintf("get_test/%d", testID))
}

// GetRun fetches a test run.
func (c *Client) GetRun(ctx context.Context, runID int) (model.Response, error) {
	return c.get(ctx, fmt.Sprintf("get_run/%d", runID))
}

func (c *Client) endpoint(path string) string {
	return fmt.Sprintf("%s/index.php?/api/v2/%s", c.baseURL, path)
}

func (c *Client) post(ctx context.Context, path string, body any) (model.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	return c.do(req, payload)
}

func (c *Client) get(ctx context.Context, path string) (model.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, payload []byte) (model.Response, error) {
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.email, c.apiKey)

	if e := c.logger.Debug(); e.Enabled() {
		e.Str("curl", c.curlCommand(req, payload)).Msg("Issuing TestRail request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("testrail request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if len(data) == 0 {
		return model.Response{}, nil
	}

	var out model.Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return out, nil
}

// curlCommand renders the request as a copy-pasteable curl invocation for
// debug logging. The API key is redacted.
func (c *Client) curlCommand(req *http.Request, payload []byte) string {
	parts := []string{"curl", "-X", req.Method}
	parts = append(parts, "-u", shellescape.Quote(c.email+":***"))
	parts = append(parts, "-H", shellescape.Quote("Content-Type: application/json"))
	if len(payload) > 0 {
		parts = append(parts, "-d", shellescape.Quote(string(payload)))
	}
	parts = append(parts, shellescape.Quote(req.URL.String()))
	return strings.Join(parts, " ")
}
