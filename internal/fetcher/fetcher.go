// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/docgrid/internal/logger"
)

// maxBodySize caps how much of a published document is read
const maxBodySize = 16 << 20

// ErrBodyTooLarge is returned when a document exceeds the size limit
var ErrBodyTooLarge = errors.New("document too large")

// Cache stores fetched documents by source
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Fetcher retrieves raw document markup from a URL or a local file
type Fetcher struct {
	client    *http.Client
	userAgent string
	cache     Cache
	cacheTTL  time.Duration
	maxBody   int64
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithCache caches remote documents for ttl
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.cache = cache
		f.cacheTTL = ttl
	}
}

// WithUserAgent sets the User-Agent header for remote requests
func WithUserAgent(userAgent string) Option {
	return func(f *Fetcher) {
		f.userAgent = userAgent
	}
}

// WithHTTPClient replaces the HTTP client. Requests still go through the logging transport.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// New creates a Fetcher with the given request timeout
func New(timeout time.Duration, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: "docgrid/1.0",
		maxBody:   maxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	base := f.client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *f.client
	wrapped.Transport = &loggingTransport{next: base}
	f.client = &wrapped

	return f
}

// IsRemote reports whether source is an http(s) URL
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Fetch returns the document at source. URLs are fetched once with no retries;
// anything else is read from disk.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if source == "" {
		return nil, fmt.Errorf("no document source given")
	}
	if !IsRemote(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read document: %w", err)
		}
		return data, nil
	}

	if f.cache != nil {
		data, ok, err := f.cache.Get(ctx, source)
		if err != nil {
			logger.Warnf("Fetch: cache lookup failed for %s: %v", source, err)
		} else if ok {
			logger.Debugf("Fetch: cache hit for %s (%d bytes)", source, len(data))
			return data, nil
		}
	}

	data, err := f.get(ctx, source)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.Set(ctx, source, data, f.cacheTTL); err != nil {
			logger.Warnf("Fetch: cache store failed for %s: %v", source, err)
		}
	}
	return data, nil
}

// Evict drops any cached copy of source so the next Fetch goes upstream
func (f *Fetcher) Evict(ctx context.Context, source string) error {
	if f.cache == nil || !IsRemote(source) {
		return nil
	}
	if err := f.cache.Delete(ctx, source); err != nil {
		return fmt.Errorf("failed to evict %s from cache: %w", source, err)
	}
	logger.Debugf("Evict: dropped cached copy of %s", source)
	return nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: unexpected status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// One extra byte tells a body at the limit from a longer one
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > f.maxBody {
		return nil, fmt.Errorf("fetch %s: %w (over %d bytes)", url, ErrBodyTooLarge, f.maxBody)
	}
	return data, nil
}

// loggingTransport logs request entry and exit
type loggingTransport struct {
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger.Debugf("[HTTP] -> %s %s", req.Method, req.URL.Redacted())

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		logger.Debugf("[HTTP] <- error (%s) %s %s: %v", time.Since(start), req.Method, req.URL.Redacted(), err)
		return nil, err
	}

	logger.Debugf("[HTTP] <- %d (%s) %s %s", resp.StatusCode, time.Since(start), req.Method, req.URL.Redacted())
	return resp, nil
}
