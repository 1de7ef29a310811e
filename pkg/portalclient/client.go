// Package portalclient is a typed Go client for the student portal API. It keeps the
// session token between calls, retries idempotent reads on server failures and maps
// failures to messages that can be shown to students as-is.
package portalclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ictak-go-api/internal/auth"
)

const (
	defaultTimeout       = 15 * time.Second
	defaultUploadTimeout = 30 * time.Second
	defaultRetries       = 3
	defaultRetryDelay    = time.Second
	maxResponseBytes     = 10 << 20
)

var errTransport = errors.New("portal api unreachable")

// Client talks to a portal API rooted at baseURL, for example "http://localhost:5000/api".
type Client struct {
	baseURL       string
	http          *http.Client
	tokens        TokenStore
	timeout       time.Duration
	uploadTimeout time.Duration
	retries       int
	retryDelay    time.Duration
	logger        zerolog.Logger
	now           func() time.Time
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenStore sets where the session token is kept. The default keeps it in memory.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) {
		if store != nil {
			c.tokens = store
		}
	}
}

// WithTimeout bounds every non-upload request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithUploadTimeout bounds submission uploads.
func WithUploadTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.uploadTimeout = timeout
		}
	}
}

// WithRetry sets how many times a failed GET is retried and the delay before the first
// retry. The delay doubles after each attempt.
func WithRetry(retries int, delay time.Duration) Option {
	return func(c *Client) {
		if retries >= 0 {
			c.retries = retries
		}
		if delay >= 0 {
			c.retryDelay = delay
		}
	}
}

// WithLogger attaches a logger for retry diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.With().Str("component", "portal_client").Logger()
	}
}

// New builds a client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:          &http.Client{},
		tokens:        NewMemoryTokenStore(),
		timeout:       defaultTimeout,
		uploadTimeout: defaultUploadTimeout,
		retries:       defaultRetries,
		retryDelay:    defaultRetryDelay,
		logger:        zerolog.Nop(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Logout forgets the stored session token.
func (c *Client) Logout() error {
	return c.tokens.ClearToken()
}

// IsAuthenticated reports whether a session token is stored and has not expired. The
// signature is not checked. Expired or undecodable tokens are cleared.
func (c *Client) IsAuthenticated() bool {
	_, ok := c.CurrentIdentity()
	return ok
}

// CurrentIdentity decodes the identity carried by the stored, unexpired session token.
func (c *Client) CurrentIdentity() (auth.Identity, bool) {
	token, err := c.tokens.Token()
	if err != nil || token == "" {
		return auth.Identity{}, false
	}

	claims := &auth.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		c.clearToken()
		return auth.Identity{}, false
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(c.now()) {
		c.clearToken()
		return auth.Identity{}, false
	}
	return claims.Identity, true
}

func (c *Client) clearToken() {
	if err := c.tokens.ClearToken(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to clear session token")
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Token   string          `json:"token"`
	Error   string          `json:"error"`
}

type request struct {
	method      string
	path        string
	body        []byte
	contentType string
	upload      bool
	// whole decodes the full body into the result instead of the envelope data.
	whole bool
}

type response struct {
	status int
	env    envelope
}

func jsonRequest(method, path string, payload interface{}) (request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("encode %s %s: %w", method, path, err)
	}
	return request{method: method, path: path, body: body, contentType: "application/json"}, nil
}

// call sends r and decodes the result into out. GET requests are retried when the
// server answers with a 5xx status.
func (c *Client) call(ctx context.Context, r request, out interface{}) (response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	delay := c.retryDelay
	for attempt := 0; ; attempt++ {
		resp, err := c.send(ctx, r, out)
		if err == nil || r.method != http.MethodGet || attempt >= c.retries || StatusOf(err) < http.StatusInternalServerError {
			return resp, err
		}

		c.logger.Debug().Str("path", r.path).Int("attempt", attempt+1).Dur("delay", delay).Msg("retrying request")
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return resp, err
		case <-timer.C:
		}
		delay *= 2
	}
}

func (c *Client) send(ctx context.Context, r request, out interface{}) (response, error) {
	timeout := c.timeout
	if r.upload {
		timeout = c.uploadTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return response{}, fmt.Errorf("build %s %s: %w", r.method, r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if token, err := c.tokens.Token(); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("%w: %w", errTransport, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return response{}, fmt.Errorf("%w: read body: %w", errTransport, err)
	}

	resp := response{status: httpResp.StatusCode}
	decodeErr := decodeEnvelope(raw, &resp.env)

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		if httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden {
			c.clearToken()
		}
		return resp, &APIError{Status: httpResp.StatusCode, Message: resp.env.Message, Detail: resp.env.Error}
	}
	if decodeErr != nil {
		return resp, fmt.Errorf("decode %s %s: %w", r.method, r.path, decodeErr)
	}
	if out == nil {
		return resp, nil
	}

	payload := []byte(resp.env.Data)
	if r.whole {
		payload = raw
	}
	if len(payload) == 0 || string(payload) == "null" {
		return resp, nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return resp, fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	return resp, nil
}

func decodeEnvelope(raw []byte, env *envelope) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return json.Unmarshal(raw, env)
}
