package clients

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
	"golang.org/x/time/rate"
)

// RequestIDHeader carries a per-request id for backend log correlation.
const RequestIDHeader = "X-Request-ID"

// HTTPDoer defines http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// BaseClient sends JSON requests to the admin REST API.
type BaseClient struct {
	baseURL string
	client  HTTPDoer
	limiter *rate.Limiter
	token   *Token
	logger  *zap.Logger
	now     func() time.Time
}

// Option tweaks a BaseClient.
type Option func(*BaseClient)

// WithLimiter throttles outgoing requests.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *BaseClient) { c.limiter = l }
}

// WithToken attaches a bearer token to every request.
func WithToken(t *Token) Option {
	return func(c *BaseClient) { c.token = t }
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *BaseClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewBaseClient builds client with base URL.
func NewBaseClient(baseURL string, client HTTPDoer, opts ...Option) *BaseClient {
	c := &BaseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *BaseClient) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Do executes HTTP request and returns status/body.
func (c *BaseClient) Do(ctx context.Context, method, path string, body []byte, headers map[string]string) (int, []byte, error) {
	if err := c.token.Check(c.now()); err != nil {
		return 0, nil, err
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("clients: rate limit wait: %w", err)
		}
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if auth := c.token.Header(); auth != "" {
		req.Header.Set("Authorization", auth)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	start := c.now()
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", c.now().Sub(start)),
		zap.String("request_id", req.Header.Get(RequestIDHeader)))
	return resp.StatusCode, respBody, nil
}

// doJSON encodes in (when non-nil), sends the request and decodes a 2xx body
// into out (when non-nil). Non-2xx responses become *APIError.
func (c *BaseClient) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body []byte
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("clients: encode %s %s: %w", method, path, err)
		}
		body = encoded
	}

	status, respBody, err := c.Do(ctx, method, path, body, nil)
	if err != nil {
		return fmt.Errorf("clients: %s %s: %w", method, path, err)
	}
	if status < 200 || status >= 300 {
		return &APIError{Method: method, Path: path, Status: status, Body: string(respBody)}
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("clients: decode %s %s: %w", method, path, err)
	}
	return nil
}

// NewDefaultHTTPClient returns *http.Client with timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
