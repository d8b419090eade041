package fetch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/oshokin/llc-launcher/internal/integrity"
	"github.com/oshokin/llc-launcher/internal/logger"
)

// DefaultAttemptTimeout bounds one request to one mirror.
const DefaultAttemptTimeout = 30 * time.Second

// Client issues HTTP requests against source sets. It is built once by the
// launcher and shared by every component that downloads something.
type Client struct {
	// httpClient performs the requests.
	httpClient *http.Client
	// headers are added to every request.
	headers http.Header
	// attemptTimeout bounds a single endpoint attempt; zero disables the bound.
	attemptTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithHeader sets a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return WithHeader("User-Agent", userAgent)
}

// WithAttemptTimeout sets the per-endpoint timeout.
func WithAttemptTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.attemptTimeout = timeout
		}
	}
}

// NewClient creates a client with the default attempt timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:     new(http.Client),
		headers:        make(http.Header),
		attemptTimeout: DefaultAttemptTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// With returns a copy of the client with opts applied. The HTTP client is shared.
func (c *Client) With(opts ...Option) *Client {
	clone := &Client{
		httpClient:     c.httpClient,
		headers:        c.headers.Clone(),
		attemptTimeout: c.attemptTimeout,
	}

	for _, opt := range opts {
		opt(clone)
	}

	return clone
}

// AttemptTimeout returns the per-endpoint timeout.
func (c *Client) AttemptTimeout() time.Duration {
	return c.attemptTimeout
}

// Get performs a single GET against endpoint and returns the full body.
func (c *Client) Get(ctx context.Context, endpoint Endpoint) ([]byte, error) {
	target := endpoint.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, NewTransportError(err, target)
	}

	for key, values := range c.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewTransportError(err, target)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, response.Body)

		return nil, NewStatusError(target, response.StatusCode)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, NewTransportError(err, target)
	}

	return data, nil
}

// FetchBytes races every endpoint of set and returns the first payload that
// passes verification. A nil verifier accepts any payload.
//
// Each attempt verifies its own payload, so a corrupt mirror that is not last
// in set is logged at warn level and skipped like any other failing mirror.
// Only a mismatch from the last mirror is returned, as an IntegrityError.
// No mirror is requested twice.
func (c *Client) FetchBytes(ctx context.Context, set SourceSet, verifier integrity.Verifier) ([]byte, Endpoint, error) {
	return Race(ctx, set, c.attemptTimeout, func(ctx context.Context, endpoint Endpoint) ([]byte, error) {
		data, err := c.Get(ctx, endpoint)
		if err != nil {
			return nil, err
		}

		if err = integrity.Check(data, verifier); err != nil {
			return nil, NewIntegrityError(err, endpoint.String())
		}

		logger.DebugKV(ctx, "Payload verified", "endpoint", endpoint, "bytes", len(data))

		return data, nil
	})
}

// FetchJSON races every endpoint of set and decodes the first usable JSON document into T.
func FetchJSON[T any](ctx context.Context, c *Client, set SourceSet) (T, Endpoint, error) {
	return Race(ctx, set, c.attemptTimeout, func(ctx context.Context, endpoint Endpoint) (T, error) {
		var value T

		data, err := c.Get(ctx, endpoint)
		if err != nil {
			return value, err
		}

		if err = json.Unmarshal(data, &value); err != nil {
			return value, NewDecodeError(err, endpoint.String())
		}

		return value, nil
	})
}
