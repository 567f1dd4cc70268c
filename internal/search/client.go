// Package search queries a web search API for regulatory background on a
// species and distills the results into insights.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	dErrors "herbcheck/pkg/domain-errors"
)

// Searcher runs one web query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Result is one organic search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

const (
	defaultResultCount = 10
	defaultCountry     = "in"
	defaultLanguage    = "en"
)

// Config holds endpoint and rate settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	RatePerSec float64
}

// Client calls a Serper-compatible search endpoint behind a token bucket.
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient builds a client. A non-positive rate disables limiting.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	c := &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

type searchRequest struct {
	Query    string `json:"q"`
	Num      int    `json:"num"`
	Country  string `json:"gl"`
	Language string `json:"hl"`
}

type searchResponse struct {
	Organic []Result `json:"organic"`
}

// Search returns the organic results for query. Failures carry CodeUnavailable.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if !c.IsConfigured() {
		return nil, dErrors.New(dErrors.CodeUnavailable, "search client not configured")
	}
	query = sanitizeQuery(query)
	if query == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "search query is empty")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "search rate limit wait")
	}

	body, err := json.Marshal(searchRequest{
		Query:    query,
		Num:      defaultResultCount,
		Country:  defaultCountry,
		Language: defaultLanguage,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "search request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "read search response")
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "search api error", "status", resp.StatusCode)
		return nil, dErrors.New(dErrors.CodeUnavailable, fmt.Sprintf("search request failed with status %d", resp.StatusCode))
	}

	var out searchResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "decode search response")
	}
	return out.Organic, nil
}

// sanitizeQuery drops control characters and collapses whitespace.
func sanitizeQuery(q string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(`<>"'`, r) {
			return ' '
		}
		return r
	}, q)
	return strings.Join(strings.Fields(cleaned), " ")
}
