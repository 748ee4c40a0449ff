// Package fetch loads remote images referenced by template layers.
//
// The [Fetcher] retries transient failures with exponential backoff and can
// keep decoded-upstream bytes in an on-disk cache so repeated renders of the
// same template do not refetch unchanged avatars or featured images.
package fetch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/cardpress/cardpress/pkg/errors"
)

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient replaces the default HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithAttempts sets how many times a transient failure is retried.
func WithAttempts(n int) Option {
	return func(f *Fetcher) { f.attempts = max(n, 1) }
}

// WithCacheDir enables the on-disk byte cache. If dir is empty the cache
// lives under ~/.cache/cardpress/images. A ttl of zero keeps entries forever.
func WithCacheDir(dir string, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.cacheDir = dir
		f.cacheTTL = ttl
		f.useCache = true
	}
}

// Fetcher downloads and decodes remote images. It is safe for concurrent
// use; distinct processes may share the same cache directory.
type Fetcher struct {
	client   *http.Client
	attempts int
	delay    time.Duration

	useCache bool
	cacheDir string
	cacheTTL time.Duration
}

// New returns a Fetcher with a 15 second request timeout and 3 attempts.
func New(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		client:   &http.Client{Timeout: 15 * time.Second},
		attempts: 3,
		delay:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.useCache {
		if f.cacheDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "resolving cache directory")
			}
			f.cacheDir = filepath.Join(home, ".cache", "cardpress", "images")
		}
		if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating cache directory")
		}
	}
	return f, nil
}

// Fetch downloads the image at url, retrying 5xx responses and transport
// errors. When the byte cache is enabled a fresh entry short-circuits the
// request entirely.
func (f *Fetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	if err := errors.ValidateAssetURL(url); err != nil {
		return nil, err
	}
	if data, ok := f.cachedBytes(url); ok {
		img, err := imaging.Decode(bytes.NewReader(data))
		if err == nil {
			return img, nil
		}
		// A corrupt entry falls through to a refetch.
	}

	var body []byte
	err := Retry(ctx, f.attempts, f.delay, func() error {
		data, err := f.fetchOnce(ctx, url)
		if err != nil {
			return err
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decoding image %s", url)
	}
	f.storeBytes(url, body)
	return img, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "building request for %s", url)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetching %s", url)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "fetching %s: status %d", url, resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeNetwork, "fetching %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "reading %s", url)}
	}
	return data, nil
}

// cachedBytes returns the cached payload for url when the entry exists and
// has not exceeded its TTL. Reads never touch modification times.
func (f *Fetcher) cachedBytes(url string) ([]byte, bool) {
	if !f.useCache {
		return nil, false
	}
	path := f.keyPath(url)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if f.cacheTTL > 0 && time.Since(info.ModTime()) > f.cacheTTL {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (f *Fetcher) storeBytes(url string, data []byte) {
	if !f.useCache {
		return
	}
	// Cache writes are best effort; a full disk must not fail the render.
	_ = os.WriteFile(f.keyPath(url), data, 0o644)
}

// keyPath hashes the URL so arbitrary strings become safe file names.
func (f *Fetcher) keyPath(url string) string {
	h := sha256.Sum256([]byte(url))
	return filepath.Join(f.cacheDir, hex.EncodeToString(h[:]))
}
