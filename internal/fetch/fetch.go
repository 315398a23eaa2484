package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a whole fetch when the client sets none.
const DefaultTimeout = 30 * time.Second

// Result is the raw outcome of a single GET. Any HTTP status counts as a
// successful fetch unless the client opts into status checking.
type Result struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	// Truncated is set when the body exceeded MaxBodyBytes and was cut.
	Truncated bool
}

// HasContentType reports whether the response carried a Content-Type header.
func (r Result) HasContentType() bool { return r.ContentType != "" }

// Client wraps http.Client with a timeout, a redirect cap and a body size limit.
// It never retries.
type Client struct {
	HTTPClient *http.Client
	// UserAgent is sent only when non-empty.
	UserAgent string
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
	// RedirectMaxHops caps redirect following to avoid loops. Zero means default (5).
	RedirectMaxHops int
	// MaxBodyBytes truncates oversized bodies and marks the Result. Zero
	// means unlimited.
	MaxBodyBytes int64
	// RequireOK turns non-2xx statuses into *HTTPError.
	RequireOK bool
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirectFunc()}
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// Get issues a plain GET for address and returns the body with its headers.
// Transport failures are reported as *NetworkError.
func (c *Client) Get(ctx context.Context, address string) (Result, error) {
	u, err := url.Parse(strings.TrimSpace(address))
	if err != nil {
		return Result{}, &NetworkError{URL: address, Err: fmt.Errorf("parse address: %w", err)}
	}
	// Reject non-HTTP(S) schemes early
	if !isHTTPScheme(u) {
		return Result{}, &NetworkError{URL: address, Err: fmt.Errorf("unsupported URL scheme: %q", u.Scheme)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Result{}, &NetworkError{URL: address, Err: fmt.Errorf("new request: %w", err)}
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return Result{}, &NetworkError{URL: address, Err: err}
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if c.MaxBodyBytes > 0 {
		// One extra byte tells a body of exactly MaxBodyBytes from a longer one.
		body = io.LimitReader(resp.Body, c.MaxBodyBytes+1)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return Result{}, &NetworkError{URL: address, Err: fmt.Errorf("read body: %w", err)}
	}
	truncated := false
	if c.MaxBodyBytes > 0 && int64(len(b)) > c.MaxBodyBytes {
		b = b[:c.MaxBodyBytes]
		truncated = true
	}

	res := Result{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        b,
		Truncated:   truncated,
	}
	if c.RequireOK && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return res, &HTTPError{URL: address, StatusCode: resp.StatusCode}
	}
	return res, nil
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		// Only allow http/https during redirects
		if req.URL == nil || !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
