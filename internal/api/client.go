package api

import (
	"context"
	"encoding/json"
	"fmt"
	"gamehub/internal/constants"
	"gamehub/internal/domain"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const maxCacheEntries = 1024

type Options struct {
	Name        string
	BaseURL     string
	MinInterval time.Duration
	CacheTTL    time.Duration
	Headers     map[string]string

	// added to every request after the cache key is computed
	Credentials url.Values
}

// Client wraps one upstream API. All calls through a Client share a single
// pacing gate and a single response cache.
type Client struct {
	name        string
	baseURL     string
	headers     map[string]string
	credentials url.Values
	ttl         time.Duration

	http    *fasthttp.Client
	limiter *rate.Limiter
	group   singleflight.Group

	cacheMu sync.Mutex
	cache   map[string]cacheEntry

	logger zerolog.Logger
	now    func() time.Time
}

type cacheEntry struct {
	body      []byte
	expiresAt time.Time
}

type UpstreamError struct {
	Upstream string
	Endpoint string
	Status   int
	Kind     error
	Cause    error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Upstream, e.Endpoint, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func NewClient(opts Options, logger zerolog.Logger) *Client {
	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}

	return &Client{
		name:        opts.Name,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		headers:     opts.Headers,
		credentials: opts.Credentials,
		ttl:         opts.CacheTTL,
		http: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		limiter: rate.NewLimiter(limit, 1),
		cache:   make(map[string]cacheEntry),
		logger:  logger.With().Str("upstream", opts.Name).Logger(),
		now:     time.Now,
	}
}

func (c *Client) Name() string {
	return c.name
}

// Fetch returns the raw JSON payload for endpoint. Cached payloads skip the
// pacing gate, and concurrent misses on the same key share one request. The
// shared request runs on its own deadline, so a caller that gives up only
// stops waiting for it.
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	key := cacheKey(endpoint, params)

	if body, ok := c.cached(key); ok {
		c.logger.Debug().Str("endpoint", endpoint).Msg("cache hit")
		return body, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		if body, ok := c.cached(key); ok {
			return body, nil
		}

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ExternalAPITimeout)
		defer cancel()

		body, err := c.do(fetchCtx, endpoint, params)
		if err != nil {
			return nil, err
		}
		c.store(key, body)
		return body, nil
	})

	select {
	case <-ctx.Done():
		return nil, &UpstreamError{Upstream: c.name, Endpoint: endpoint, Kind: domain.ErrUpstreamUnavailable, Cause: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug().Str("endpoint", endpoint).Msg("coalesced upstream request")
		}
		return res.Val.([]byte), nil
	}
}

func (c *Client) do(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &UpstreamError{Upstream: c.name, Endpoint: endpoint, Kind: domain.ErrUpstreamUnavailable, Cause: err}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.requestURI(endpoint, params))
	req.Header.SetMethod(fasthttp.MethodGet)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.http.DoDeadline(req, resp, deadline)
	} else {
		err = c.http.Do(req, resp)
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("upstream request failed")
		return nil, &UpstreamError{Upstream: c.name, Endpoint: endpoint, Kind: domain.ErrUpstreamUnavailable, Cause: err}
	}

	status := resp.StatusCode()
	switch {
	case status == fasthttp.StatusNotFound:
		return nil, &UpstreamError{Upstream: c.name, Endpoint: endpoint, Status: status, Kind: domain.ErrNotFound}
	case status < 200 || status > 299:
		c.logger.Warn().Str("endpoint", endpoint).Int("status", status).Msg("upstream returned error status")
		return nil, &UpstreamError{Upstream: c.name, Endpoint: endpoint, Status: status, Kind: domain.ErrUpstreamUnavailable}
	}

	if ct := string(resp.Header.ContentType()); !strings.Contains(strings.ToLower(ct), "json") {
		c.logger.Warn().Str("endpoint", endpoint).Str("content_type", ct).Msg("upstream returned non-JSON content")
		return nil, &UpstreamError{Upstream: c.name, Endpoint: endpoint, Status: status, Kind: domain.ErrMalformedUpstream}
	}

	body := append([]byte(nil), resp.Body()...)
	if !json.Valid(body) {
		return nil, &UpstreamError{Upstream: c.name, Endpoint: endpoint, Status: status, Kind: domain.ErrMalformedUpstream}
	}
	return body, nil
}

func (c *Client) requestURI(endpoint string, params url.Values) string {
	query := url.Values{}
	for k, vs := range params {
		query[k] = append([]string(nil), vs...)
	}
	for k, vs := range c.credentials {
		query[k] = append(query[k], vs...)
	}

	uri := c.baseURL + endpoint
	if encoded := query.Encode(); encoded != "" {
		uri += "?" + encoded
	}
	return uri
}

func (c *Client) cached(key string) ([]byte, bool) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	entry, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.cache, key)
		return nil, false
	}
	return entry.body, true
}

func (c *Client) store(key string, body []byte) {
	if c.ttl <= 0 {
		return
	}

	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	now := c.now()
	if _, ok := c.cache[key]; !ok && len(c.cache) >= maxCacheEntries {
		c.evict(now)
	}
	c.cache[key] = cacheEntry{body: body, expiresAt: now.Add(c.ttl)}
}

// evict drops expired entries, then the entry closest to expiry if the
// cache is still full. Caller holds cacheMu.
func (c *Client) evict(now time.Time) {
	oldestKey := ""
	var oldest time.Time
	for k, e := range c.cache {
		if !now.Before(e.expiresAt) {
			delete(c.cache, k)
			continue
		}
		if oldestKey == "" || e.expiresAt.Before(oldest) {
			oldestKey, oldest = k, e.expiresAt
		}
	}
	if len(c.cache) >= maxCacheEntries && oldestKey != "" {
		delete(c.cache, oldestKey)
	}
}

func cacheKey(endpoint string, params url.Values) string {
	return endpoint + "?" + params.Encode()
}

func getJSON[T any](ctx context.Context, c *Client, endpoint string, params url.Values) (*T, error) {
	body, err := c.Fetch(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &UpstreamError{Upstream: c.name, Endpoint: endpoint, Kind: domain.ErrMalformedUpstream, Cause: err}
	}
	return &result, nil
}
