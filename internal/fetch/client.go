package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shinde-pras/helix-insights-app/internal/cache"
	"github.com/shinde-pras/helix-insights-app/internal/model"
	"github.com/shinde-pras/helix-insights-app/internal/util"
	"github.com/shinde-pras/helix-insights-app/internal/worker"
)

const maxRetries = 3

// sleepFunc is the sleep used between retries (injectable for tests)
var sleepFunc = time.Sleep

// Client is the shared HTTP client used by all source feeds. It layers
// response caching, per-host rate limiting, robots.txt politeness and
// bounded retries over a plain http.Client.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	store      cache.Cache         // nil when caching is disabled
	limiter    *worker.Limiter
	robots     *util.RobotsChecker // nil when politeness checks are disabled
}

// NewClient builds a client from configuration. Pass a nil store to bypass
// caching entirely. Cached entries expire on the store's own default TTL,
// so a layered store keeps its memory and disk lifetimes independent.
func NewClient(httpCfg model.HTTPConfig, rlCfg model.RateLimitConfig, store cache.Cache) *Client {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
	}
	if httpCfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	var robots *util.RobotsChecker
	if httpCfg.CheckRobots {
		robots = util.NewRobotsChecker(httpCfg.UserAgent, httpCfg.Timeout)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   httpCfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: httpCfg.UserAgent,
		maxBytes:  httpCfg.MaxBodyBytes,
		store:     store,
		limiter:   worker.NewLimiter(rlCfg.RequestsPerSecond, rlCfg.Burst),
		robots:    robots,
	}
}

// Get fetches the URL and returns the body and status code.
// A 404 returns (nil, 404, nil): openFDA reports an empty result set that
// way and callers treat it as no data, not a failure. Other non-2xx
// statuses are errors. Successful bodies are cached by full request URL.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, int, error) {
	if c.store != nil {
		if body, found := c.store.Get(cache.Key(rawURL)); found {
			return body, http.StatusOK, nil
		}
	}

	if c.robots != nil {
		if !c.robots.IsAllowed(ctx, rawURL) {
			return nil, 0, fmt.Errorf("fetch %s: disallowed by robots.txt", rawURL)
		}
	}

	var (
		body   []byte
		status int
		err    error
	)
	for attempt := 0; attempt < maxRetries; attempt++ {
		body, status, err = c.getOnce(ctx, rawURL)
		if !retryable(status, err) {
			break
		}
		if attempt < maxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			sleepFunc(backoff)
		}
	}
	if err != nil {
		return nil, status, err
	}

	if c.store != nil && status == http.StatusOK {
		_ = c.store.Set(cache.Key(rawURL), body, 0)
	}

	return body, status, nil
}

func (c *Client) getOnce(ctx context.Context, rawURL string) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx, rawURL); err != nil {
		return nil, 0, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	return body, resp.StatusCode, nil
}

// retryable reports whether the attempt hit a transient failure
func retryable(status int, err error) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	if status >= 500 && status < 600 {
		return true
	}
	if err != nil {
		s := strings.ToLower(err.Error())
		return strings.Contains(s, "timeout") ||
			strings.Contains(s, "connection refused") ||
			strings.Contains(s, "connection reset")
	}
	return false
}
