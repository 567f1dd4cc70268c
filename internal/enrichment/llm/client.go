// Package llm is a chat-completions client for OpenAI-compatible endpoints.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	dErrors "herbcheck/pkg/domain-errors"
	"herbcheck/pkg/platform/circuit"
)

//go:generate mockgen -source=client.go -destination=mocks/llm-mocks.go -package=mocks Completer

// Completer turns a prompt into free text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const (
	DefaultModel       = "llama3-8b-8192"
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 1000
	DefaultTopP        = 0.9
	defaultMaxRetries  = 3
)

// SystemPrompt frames every request.
const SystemPrompt = "You are an expert in Ayurvedic herbs, sustainable harvesting practices, and Indian regulatory " +
	"compliance for medicinal plants. Provide accurate, practical advice based on NMPB guidelines and traditional knowledge."

// Config holds endpoint and sampling settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

// Client calls /chat/completions with retry and a circuit breaker.
type Client struct {
	config     Config
	httpClient *http.Client
	breaker    *circuit.Breaker
	logger     *slog.Logger
	maxRetries int
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		if b != nil {
			c.breaker = b
		}
	}
}

// WithRetry sets the attempt count and the linear backoff step.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.maxRetries = attempts
		}
		if delay >= 0 {
			c.retryDelay = delay
		}
	}
}

// NewClient applies defaults to cfg.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    circuit.New("llm"),
		logger:     slog.Default(),
		maxRetries: defaultMaxRetries,
		retryDelay: time.Second,
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

// Breaker exposes the breaker for health reporting.
func (c *Client) Breaker() *circuit.Breaker {
	return c.breaker
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	TopP        float64   `json:"top_p"`
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// StatusError is a non-200 response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion request failed with status %d: %s", e.StatusCode, e.Body)
}

// CreateChatCompletion performs a single request.
func (c *Client) CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	var out ChatCompletionResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// Complete sends prompt under the system prompt and returns the first choice.
// Failures are wrapped with dErrors.CodeUnavailable.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.IsConfigured() {
		return "", dErrors.New(dErrors.CodeUnavailable, "completion client not configured")
	}
	if !c.breaker.Allow() {
		return "", dErrors.New(dErrors.CodeUnavailable, "completion circuit open")
	}

	req := ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []Message{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		TopP:        DefaultTopP,
	}

	var (
		resp *ChatCompletionResponse
		err  error
	)
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * c.retryDelay
			c.logger.DebugContext(ctx, "retrying completion request", "attempt", attempt, "delay", delay)
			select {
			case <-ctx.Done():
				err = ctx.Err()
			case <-time.After(delay):
			}
			if ctx.Err() != nil {
				break
			}
		}

		resp, err = c.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}
		c.logger.WarnContext(ctx, "completion request failed",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"model", c.config.Model,
			"error", err,
		)
		if !isRetryable(err) {
			break
		}
	}

	if err != nil {
		if _, change := c.breaker.RecordFailure(); change.Opened {
			c.logger.WarnContext(ctx, "completion circuit opened", "error", err)
		}
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "text completion failed")
	}
	c.breaker.RecordSuccess()

	if len(resp.Choices) == 0 {
		return "", dErrors.New(dErrors.CodeUnavailable, "no completion choices returned")
	}
	c.logger.DebugContext(ctx, "completion received",
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection reset", "connection refused", "temporary failure", "network is unreachable"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
