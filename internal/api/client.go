// Package api talks to the test case generator backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Makepad-fr/casegen/internal/model"
)

const (
	DefaultBaseURL = "http://localhost:8002"

	generatePath = "/api/v1/generate"
	exportPath   = "/api/v1/export-to-jira"

	// errorBodyLimit caps how much of a failed response ends up in the error.
	errorBodyLimit = 512
)

type GenerateRequest struct {
	UserStory          string `json:"user_story"`
	AcceptanceCriteria string `json:"acceptance_criteria"`
}

type generateResponse struct {
	TestCases []model.TestCase `json:"test_cases"`
}

// ExportRequest is sent to the Jira export endpoint.
// An empty ParentKey goes over the wire as null.
type ExportRequest struct {
	ProjectKey string
	ParentKey  string
	TestCases  []model.TestCase
}

func (r ExportRequest) MarshalJSON() ([]byte, error) {
	var parent *string
	if r.ParentKey != "" {
		p := r.ParentKey
		parent = &p
	}
	cs := r.TestCases
	if cs == nil {
		cs = []model.TestCase{}
	}
	return json.Marshal(struct {
		ProjectKey string           `json:"project_key"`
		ParentKey  *string          `json:"parent_key"`
		TestCases  []model.TestCase `json:"test_cases"`
	}{r.ProjectKey, parent, cs})
}

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Status, e.Body)
}

// Client handles communication with the generator backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

type Option func(*Client)

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Generate asks the backend for test cases covering the story.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) ([]model.TestCase, error) {
	var out generateResponse
	if err := c.post(ctx, "generate", generatePath, req, &out); err != nil {
		return nil, err
	}
	if out.TestCases == nil {
		out.TestCases = []model.TestCase{}
	}
	// Unknown types are kept as sent; the view shows them unstyled.
	for _, tc := range out.TestCases {
		if !tc.Type.Valid() {
			c.log.Warn("unknown test case type", zap.String("id", tc.ID), zap.String("type", string(tc.Type)))
		}
	}
	return out.TestCases, nil
}

// Export sends the cases to the issue tracker through the backend.
// The response body carries nothing the caller needs.
func (c *Client) Export(ctx context.Context, req ExportRequest) error {
	return c.post(ctx, "export", exportPath, req, nil)
}

func (c *Client) post(ctx context.Context, op, path string, in, out any) error {
	reqID := uuid.NewString()
	log := c.log.With(zap.String("op", op), zap.String("request_id", reqID))
	start := time.Now()

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("request failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		log.Warn("upstream returned error status",
			zap.Int("status", resp.StatusCode),
			zap.Duration("took", time.Since(start)))
		return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
	} else if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error("decode response", zap.Error(err))
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	log.Info("request done", zap.Int("status", resp.StatusCode), zap.Duration("took", time.Since(start)))
	return nil
}
