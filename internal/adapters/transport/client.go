package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/bnema/tronclass-cli/internal/adapters/telemetry"
	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/bnema/tronclass-cli/internal/ports"
	"golang.org/x/net/publicsuffix"
)

const DefaultRequestTimeout = 30 * time.Second

var errNilLimiter = errors.New("rate limiter is nil")

// Client sends every request through the rate limiter before it reaches the
// network. Cookies set by any response are attached to later requests.
type Client struct {
	limiter        ports.RateLimiter
	http           *http.Client
	requestTimeout time.Duration
	metrics        *telemetry.Recorder
}

var _ ports.Transport = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.requestTimeout = timeout
	}
}

func WithMetrics(recorder *telemetry.Recorder) Option {
	return func(c *Client) {
		c.metrics = recorder
	}
}

func NewCookieJar() (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return jar, nil
}

// NewClient builds a transport with its own cookie jar. A caller supplied
// http.Client without a jar gets one attached.
func NewClient(limiter ports.RateLimiter, opts ...Option) (*Client, error) {
	if limiter == nil {
		return nil, errNilLimiter
	}

	c := &Client{
		limiter:        limiter,
		requestTimeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.http.Jar == nil {
		jar, err := NewCookieJar()
		if err != nil {
			return nil, err
		}
		c.http.Jar = jar
	}

	return c, nil
}

func (c *Client) Jar() http.CookieJar {
	return c.http.Jar
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	admission, err := c.limiter.Admit(ctx)
	if err != nil {
		return nil, fmt.Errorf("admit request: %w", err)
	}
	if !admission.OK {
		c.metrics.RateLimited(ctx)
		return nil, &domain.RateLimitError{Wait: admission.Wait}
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline && c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		req = req.WithContext(ctx)

		resp, err := c.http.Do(req)
		if err != nil {
			cancel()
			return nil, err
		}
		resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
		return resp, nil
	}

	return c.http.Do(req)
}
