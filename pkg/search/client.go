package search

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/akaihola/storesearch/pkg/logger"
)

const (
	// DefaultTimeout bounds one vendor request, matching the 15s the
	// original skill scripts used.
	DefaultTimeout = 15 * time.Second

	excerptLimit = 512
)

// Client performs searches against one vendor. It is safe for concurrent
// use, though each invocation is a single synchronous request.
type Client struct {
	cfg        *VendorConfig
	httpClient *http.Client
	attempts   int
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. to set a proxy
// or a custom timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetries enables up to n additional attempts on transport failures.
// The vendor scripts this replaces were single-shot, so the default is 0;
// upstream HTTP errors are never retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// NewClient builds a client for the given vendor configuration.
func NewClient(cfg *VendorConfig, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Vendor returns the client's vendor configuration.
func (c *Client) Vendor() *VendorConfig {
	return c.cfg
}

// Search runs the full pipeline for one query: validate, build URL, fetch,
// normalize. Records are truncated to q.Limit; TotalFound keeps the
// vendor-reported total, so limit=0 yields no records but a real total.
func (c *Client) Search(ctx context.Context, q Query) (*Result, error) {
	requestURL, err := c.cfg.BuildURL(q)
	if err != nil {
		return nil, err
	}

	log := logger.G(ctx).WithField("vendor", c.cfg.Name)
	log.WithField("url", requestURL).Debug("fetching vendor search results")

	body, err := c.fetch(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	result, err := c.cfg.Normalize(body)
	if err != nil {
		return nil, err
	}
	if len(result.Records) > q.Limit {
		result.Records = result.Records[:q.Limit]
	}
	log.WithField("records", len(result.Records)).Debug("search complete")
	return result, nil
}

func (c *Client) fetch(ctx context.Context, requestURL string) ([]byte, error) {
	if c.attempts <= 0 {
		return Fetch(ctx, c.httpClient, requestURL)
	}

	var body []byte
	err := retry.Do(
		func() error {
			var fetchErr error
			body, fetchErr = Fetch(ctx, c.httpClient, requestURL)
			return fetchErr
		},
		retry.RetryIf(func(err error) bool {
			var netErr *NetworkError
			return errors.As(err, &netErr)
		}),
		retry.Attempts(uint(c.attempts)+1),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).WithField("attempt", n+1).Warn("retrying vendor request")
		}),
	)
	return body, err
}

// Fetch issues a single unauthenticated GET and returns the response body.
// Transport failures map to NetworkError, non-2xx statuses to UpstreamError
// with a body excerpt. The body is closed on all paths.
func Fetch(ctx context.Context, hc *http.Client, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &NetworkError{URL: requestURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: requestURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: requestURL, Err: errors.Wrap(err, "reading response body")}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := string(body)
		if len(excerpt) > excerptLimit {
			excerpt = excerpt[:excerptLimit]
		}
		return nil, &UpstreamError{StatusCode: resp.StatusCode, BodyExcerpt: excerpt}
	}
	return body, nil
}
