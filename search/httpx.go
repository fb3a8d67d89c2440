package search

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/time/rate"
)

// profile is one browser impersonation set: a User-Agent and the Accept
// headers that browser actually sends. A random profile is picked per
// request so consecutive calls do not share an obvious fingerprint.
type profile struct {
	userAgent      string
	accept         string
	acceptLanguage string
	secChUA        string
}

var profiles = []profile{
	{
		userAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
		accept:         "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		acceptLanguage: "en-US,en;q=0.9",
		secChUA:        `"Google Chrome";v="131", "Chromium";v="131", "Not_A Brand";v="24"`,
	},
	{
		userAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.6 Safari/605.1.15",
		accept:         "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		acceptLanguage: "en-US,en;q=0.9",
	},
	{
		userAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
		accept:         "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		acceptLanguage: "en-US,en;q=0.5",
	},
	{
		userAgent:      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
		accept:         "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		acceptLanguage: "en-US,en;q=0.9",
		secChUA:        `"Google Chrome";v="131", "Chromium";v="131", "Not_A Brand";v="24"`,
	},
}

const maxBodySize = 4 << 20

// Client is the shared HTTP layer for every engine adapter: one
// connection pool, per-engine rate limiting, and rotating browser
// profiles.
type Client struct {
	hc      *http.Client
	logger  *zap.Logger
	perMin  int
	mu      sync.Mutex
	limits  map[string]*rate.Limiter
	cookies map[string]string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithProxy routes all engine traffic through the given proxy URL.
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		if proxyURL == "" {
			return
		}
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return
		}
		if t, ok := c.hc.Transport.(*http.Transport); ok {
			t.Proxy = http.ProxyURL(parsed)
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.hc.Timeout = d }
}

// WithRateLimit caps requests per engine per minute.
func WithRateLimit(perMinute int) ClientOption {
	return func(c *Client) { c.perMin = perMinute }
}

// NewClient builds the shared engine HTTP client. HTTP/2 is negotiated
// where the provider supports it.
func NewClient(logger *zap.Logger, opts ...ClientOption) *Client {
	transport := &http.Transport{
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: 20 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	// Register the h2 upgrade explicitly so the fingerprint matches what
	// browsers negotiate.
	_ = http2.ConfigureTransport(transport)

	c := &Client{
		hc: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		logger:  logger,
		perMin:  20,
		limits:  make(map[string]*rate.Limiter),
		cookies: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) limiter(engine string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.limits[engine]
	if !ok {
		l = rate.NewLimiter(rate.Limit(float64(c.perMin)/60.0), 1)
		c.limits[engine] = l
	}
	return l
}

// SetCookie pins a cookie sent on every request to the given host.
// Engines use it for consent and safe-search cookies.
func (c *Client) SetCookie(host, cookie string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cookies[host] = cookie
}

// Fetch issues one request for an engine and returns the response body.
// The engine name keys the rate limiter.
func (c *Client) Fetch(ctx context.Context, engine string, req *Request) ([]byte, error) {
	if err := c.limiter(engine).Wait(ctx); err != nil {
		return nil, err
	}

	var httpReq *http.Request
	var err error
	if len(req.Form) > 0 {
		form := url.Values{}
		for k, v := range req.Form {
			form.Set(k, v)
		}
		httpReq, err = http.NewRequestWithContext(ctx, req.Method, req.URL, strings.NewReader(form.Encode()))
		if err == nil {
			httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		httpReq, err = http.NewRequestWithContext(ctx, req.Method, req.URL, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	p := profiles[rand.Intn(len(profiles))]
	httpReq.Header.Set("User-Agent", p.userAgent)
	httpReq.Header.Set("Accept", p.accept)
	httpReq.Header.Set("Accept-Language", p.acceptLanguage)
	if p.secChUA != "" {
		httpReq.Header.Set("Sec-CH-UA", p.secChUA)
	}
	httpReq.Header.Set("Referer", "https://"+httpReq.URL.Host+"/")
	c.mu.Lock()
	if cookie, ok := c.cookies[httpReq.URL.Host]; ok {
		httpReq.Header.Set("Cookie", cookie)
	}
	c.mu.Unlock()
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("engine_request",
		zap.String("engine", engine),
		zap.String("url", req.URL),
		zap.Int("status", resp.StatusCode),
		zap.Int("body_size", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return body, nil
}
