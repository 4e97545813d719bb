// Package requester issues the scan's HTTP requests against the target.
package requester

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"xsscan/internal/models"
)

// DefaultTimeout is the fixed per-request timeout applied when none is
// configured.
const DefaultTimeout = 15 * time.Second

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Response is the subset of an HTTP exchange the scanner needs. FinalURL
// is the URL after redirects, which is what a finding links to.
type Response struct {
	Body        string
	ContentType string
	StatusCode  int
	FinalURL    string
}

// Options configures the HTTP client.
type Options struct {
	Timeout   time.Duration
	VerifyTLS bool
	UserAgent string
}

// HTTPClient is a thread-safe client that attaches a persistent
// browser-like header set to every request.
type HTTPClient struct {
	client    *http.Client
	userAgent string
}

// NewHTTPClient creates a client with the given options. Certificate
// verification is off unless VerifyTLS is set: lab targets routinely sit
// behind self-signed certificates. That trade-off is deliberate and not a
// default for production use.
func NewHTTPClient(opts Options) *HTTPClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !opts.VerifyTLS},
	}
	return &HTTPClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			// Redirects are followed (the default policy); the final URL
			// after the chain is what lands in a finding.
		},
		userAgent: ua,
	}
}

// Send substitutes value for the parameter under test while holding every
// other parameter at its baseline, and issues the request. GET parameters
// are query-encoded, POST parameters form-encoded. A timeout or transport
// error comes back as an ordinary error the caller treats as "no
// reflection", never as a scan-aborting condition.
func (c *HTTPClient) Send(ctx context.Context, target models.ScanTarget, param, value string) (*Response, error) {
	values := url.Values{}
	for name, baseline := range target.Params {
		if name == param {
			values.Set(name, value)
		} else {
			values.Set(name, baseline)
		}
	}

	var req *http.Request
	var err error
	if strings.EqualFold(target.Method, "POST") {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, target.URL, strings.NewReader(values.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		u, perr := url.Parse(target.URL)
		if perr != nil {
			return nil, fmt.Errorf("invalid target URL: %w", perr)
		}
		q := u.Query()
		for name := range values {
			q.Set(name, values.Get(name))
		}
		u.RawQuery = q.Encode()
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	return c.do(req)
}

// Get fetches a URL without parameter substitution. Parameter discovery
// uses this to pull the target page.
func (c *HTTPClient) Get(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req)
}

func (c *HTTPClient) do(req *http.Request) (*Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	finalURL := req.URL.String()
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Response{
		Body:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		FinalURL:    finalURL,
	}, nil
}
