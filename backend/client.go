// Package backend talks to the chat backend over HTTP.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:5000"

	ChatPath     = "/api/chat"
	FeedbackPath = "/api/feedback"
	HealthPath   = "/health"

	RequestIDHeader = "X-Request-ID"

	// Error bodies are only kept for diagnostics
	maxErrorBody = 4 << 10
)

// ErrMalformedReply is returned when a 2xx response does not decode to a
// non-empty {"response": string} body.
var ErrMalformedReply = errors.New("malformed reply")

// StatusError is returned for non-2xx responses
type StatusError struct {
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Path, e.StatusCode, e.Message)
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response  *string `json:"response"`
	Error     string  `json:"error,omitempty"`
	RequestID string  `json:"requestId,omitempty"`
	Source    string  `json:"source,omitempty"`
	Variant   string  `json:"variant,omitempty"`
}

type FeedbackRequest struct {
	MessageID string `json:"messageId"`
	Feedback  string `json:"feedback"`
}

type statusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type Client struct {
	http      *http.Client
	baseURL   *url.URL
	userAgent string
	logger    *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	parsedURL, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", baseURL)
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q: missing host", baseURL)
	}

	c := &Client{
		http:      &http.Client{},
		baseURL:   parsedURL,
		userAgent: "medikbot",
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Chat sends one message and returns the reply text
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, ChatPath, ChatRequest{Message: message}, &resp); err != nil {
		return "", err
	}
	if resp.Response == nil || strings.TrimSpace(*resp.Response) == "" {
		return "", fmt.Errorf("%s: %w: missing response field", ChatPath, ErrMalformedReply)
	}
	if resp.Source != "" {
		c.logger.Debug("reply served", zap.String("source", resp.Source), zap.String("request_id", resp.RequestID))
	}
	return *resp.Response, nil
}

// Feedback rates a reply. feedback is "up" or "down".
func (c *Client) Feedback(ctx context.Context, messageID, feedback string) error {
	var resp statusResponse
	req := FeedbackRequest{MessageID: messageID, Feedback: feedback}
	if err := c.do(ctx, http.MethodPost, FeedbackPath, req, &resp); err != nil {
		return err
	}
	if resp.Status != "success" {
		return fmt.Errorf("%s: %w: status %q", FeedbackPath, ErrMalformedReply, resp.Status)
	}
	return nil
}

// Health probes the backend
func (c *Client) Health(ctx context.Context) error {
	var resp statusResponse
	if err := c.do(ctx, http.MethodGet, HealthPath, nil, &resp); err != nil {
		return err
	}
	if resp.Status != "healthy" {
		return fmt.Errorf("%s: backend reports %q", HealthPath, resp.Status)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.baseURL.JoinPath(path).String()
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Path: path, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w: %v", path, ErrMalformedReply, err)
	}
	return nil
}

// errorMessage extracts the server's explanation from an error body
func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body struct {
		Error    string `json:"error"`
		Response string `json:"response"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Response != "" {
			return body.Response
		}
	}
	return strings.TrimSpace(string(raw))
}
