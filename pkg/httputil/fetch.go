package httputil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/matzehuels/netergm/pkg/buildinfo"
	"github.com/matzehuels/netergm/pkg/cache"
	"github.com/matzehuels/netergm/pkg/errors"
	"github.com/matzehuels/netergm/pkg/observability"
)

const (
	DefaultTimeout  = 30 * time.Second
	DefaultAttempts = 3
	DefaultDelay    = time.Second
	// MaxBodySize bounds a downloaded table.
	MaxBodySize = 64 << 20
)

// FetcherOptions configures a [Fetcher]. Zero values select defaults and a
// nil Cache disables caching.
type FetcherOptions struct {
	Client   *http.Client
	Cache    cache.Cache
	Keyer    cache.Keyer
	TTL      time.Duration
	Attempts int
	Delay    time.Duration
	// Refresh skips cache lookups but still stores what it downloads.
	Refresh bool
}

// Fetcher opens local files and downloads remote tables.
type Fetcher struct {
	client   *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	attempts int
	delay    time.Duration
	refresh  bool
}

// NewFetcher returns a fetcher with opts.
func NewFetcher(opts FetcherOptions) *Fetcher {
	f := &Fetcher{
		client:   opts.Client,
		cache:    opts.Cache,
		keyer:    opts.Keyer,
		ttl:      opts.TTL,
		attempts: opts.Attempts,
		delay:    opts.Delay,
		refresh:  opts.Refresh,
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: DefaultTimeout}
	}
	if f.cache == nil {
		f.cache = cache.NewNullCache()
	}
	if f.keyer == nil {
		f.keyer = cache.NewDefaultKeyer()
	}
	if f.attempts <= 0 {
		f.attempts = DefaultAttempts
	}
	if f.delay <= 0 {
		f.delay = DefaultDelay
	}
	return f
}

// Open returns the contents of source, a local path or an http(s) URL.
func (f *Fetcher) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	if err := errors.ValidateSource(source); err != nil {
		return nil, err
	}
	if !errors.IsURL(source) {
		return openFile(source)
	}
	data, err := f.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Fetch downloads url, consulting the cache first.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	key := f.keyer.HTTPKey(url)
	if !f.refresh {
		if data, ok, err := f.cache.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "http")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "http")
	}

	var data []byte
	err := Retry(ctx, f.attempts, f.delay, func(attempt int) error {
		var err error
		data, err = f.get(ctx, url, attempt)
		return err
	})
	if err != nil {
		observability.HTTP().OnError(ctx, url, err)
		if errors.GetCode(err) != "" || ctx.Err() != nil {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "download %s", url)
	}

	if err := f.cache.Set(ctx, key, data, f.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "http", len(data))
	}
	return data, nil
}

func (f *Fetcher) get(ctx context.Context, url string, attempt int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request for %s", url)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	observability.HTTP().OnRequest(ctx, url, attempt)
	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, url, resp.StatusCode, time.Since(start))

	if err := checkStatus(url, resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	if len(data) > MaxBodySize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s exceeds %d bytes", url, MaxBodySize)
	}
	return data, nil
}

func checkStatus(url string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeFileNotFound, "%s: not found", url)
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{Err: fmt.Errorf("%s: status %d", url, code)}
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d", url, code)
	}
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
