// Package gateway is the HTTP client for the storefront backend API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/storefront/internal/storage"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// Config holds the client settings
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the backend API. The bearer token is read from the token
// store on every request so that a login or logout takes effect immediately.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     storage.Store
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client. A missing base URL is not reported here but on the
// first request.
func New(cfg Config, tokens storage.Store, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("gateway")
	return c
}

// Response is a successful gateway response.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// NoContent reports a 204 response, which carries no body to decode.
func (r *Response) NoContent() bool {
	return r.StatusCode == http.StatusNoContent
}

// Decode unmarshals the body into out. A no-content response leaves out untouched.
func (r *Response) Decode(out any) error {
	if r.NoContent() {
		return nil
	}
	return json.Unmarshal(r.Body, out)
}

// Request sends body (JSON-encoded when non-nil) to endpoint and returns the
// parsed response. Non-2xx statuses come back as *APIError.
func (c *Client) Request(ctx context.Context, method, endpoint string, body any) (*Response, error) {
	if c.baseURL == "" {
		c.logger.Error("base URL is not configured; set STOREFRONT_API_BASE_URL")
		return nil, ErrBaseURLNotConfigured
	}
	url := c.baseURL + endpoint

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build request %s %s", method, url)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if token := c.bearerToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", zap.String("method", method), zap.String("url", url), zap.Error(err))
		return nil, errors.Wrapf(err, "%s %s", method, url)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read response from %s", url)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp, url, raw)
		c.logger.Warn("API error",
			zap.Int("status", resp.StatusCode),
			zap.String("url", url),
			zap.String("body", string(raw)),
		)
		return nil, apiErr
	}

	if resp.StatusCode == http.StatusNoContent {
		return &Response{StatusCode: resp.StatusCode}, nil
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		c.logger.Warn("successful response with empty body", zap.String("url", url))
		return nil, ErrEmptyBody
	}
	if !json.Valid(raw) {
		return nil, &ProtocolError{URL: url, Err: errors.New("body is not valid JSON")}
	}

	return &Response{StatusCode: resp.StatusCode, Body: raw}, nil
}

func (c *Client) bearerToken() string {
	if c.tokens == nil {
		return ""
	}
	token, ok, err := c.tokens.Get(storage.KeyAuthToken)
	if err != nil {
		c.logger.Warn("could not read auth token; sending request without it", zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

// newAPIError classifies a non-2xx response.
func newAPIError(resp *http.Response, url string, raw []byte) *APIError {
	statusText := http.StatusText(resp.StatusCode)
	if statusText == "" {
		statusText = resp.Status
	}

	detail, structured := extractDetail(raw)
	if detail == "" {
		detail = statusText
	}
	// Gateway error pages are whole HTML documents; keep them out of messages.
	lower := strings.ToLower(detail)
	if strings.Contains(lower, "<!doctype html") || strings.Contains(lower, "<html") {
		detail = statusText
		structured = false
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     statusText,
		URL:        url,
		Detail:     detail,
		Structured: structured,
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest && structured:
		apiErr.Message = detail
	case resp.StatusCode == http.StatusUnauthorized:
		apiErr.Message = fmt.Sprintf(
			"API request failed with status 401 (Unauthorized) for %s. The auth token may be invalid, expired, or missing, or the endpoint requires authentication. The error body was: %s",
			url, detail)
	case resp.StatusCode == http.StatusBadGateway:
		apiErr.Message = fmt.Sprintf(
			"A 502 Bad Gateway error occurred while calling the backend API (%s): the upstream server is not responding correctly. Check the backend application logs.",
			url)
	default:
		apiErr.Message = fmt.Sprintf("API request failed with status %d: %s", resp.StatusCode, detail)
	}
	return apiErr
}

// extractDetail pulls a human-readable message out of an error body. The
// second result is true when it came from a JSON "message" field.
func extractDetail(raw []byte) (string, bool) {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", false
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return text, false
	}
	switch v := parsed.(type) {
	case map[string]any:
		if msg, ok := v["message"].(string); ok && msg != "" {
			return msg, true
		}
	case string:
		return v, false
	}
	return text, false
}
