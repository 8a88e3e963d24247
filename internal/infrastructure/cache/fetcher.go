package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// ErrAssetTooLarge is returned when a fetched asset exceeds the
// configured size limit
var ErrAssetTooLarge = errors.New("asset exceeds size limit")

// LogoFetcher downloads business logos over HTTP with a size cap,
// backed by an AssetCache to avoid re-fetching on every render.
type LogoFetcher struct {
	client   *http.Client
	cache    AssetCache
	maxBytes int64
	ttl      time.Duration
	logger   *zap.Logger
}

// NewLogoFetcher creates a fetcher that caches fetched logos for ttl
// and refuses responses larger than maxBytes.
func NewLogoFetcher(assetCache AssetCache, maxBytes int64, ttl time.Duration, logger *zap.Logger) *LogoFetcher {
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogoFetcher{
		client:   &http.Client{Timeout: 10 * time.Second},
		cache:    assetCache,
		maxBytes: maxBytes,
		ttl:      ttl,
		logger:   logger,
	}
}

// Fetch returns the logo bytes for a URL, serving from cache when
// possible. Only http and https URLs are accepted.
func (f *LogoFetcher) Fetch(ctx context.Context, logoURL string) ([]byte, error) {
	if logoURL == "" {
		return nil, errors.New("logo URL is empty")
	}

	parsed, err := url.Parse(logoURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("unsupported logo URL: %s", logoURL)
	}

	if f.cache != nil {
		data, hit, err := f.cache.Get(ctx, logoURL)
		if err != nil {
			f.logger.Warn("Asset cache lookup failed", zap.Error(err))
		} else if hit {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, logoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build logo request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("logo fetch returned status %d", resp.StatusCode)
	}
	if resp.ContentLength > f.maxBytes {
		return nil, ErrAssetTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read logo: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, ErrAssetTooLarge
	}

	if f.cache != nil {
		if err := f.cache.Set(ctx, logoURL, data, f.ttl); err != nil {
			f.logger.Warn("Asset cache store failed", zap.Error(err))
		}
	}

	return data, nil
}
