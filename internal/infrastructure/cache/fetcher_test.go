package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoFetcher_FetchAndCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	c := NewInMemoryAssetCache(8)
	defer c.Close()
	f := NewLogoFetcher(c, 1024, time.Minute, nil)
	ctx := context.Background()

	data, err := f.Fetch(ctx, srv.URL+"/logo.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	// second fetch is served from cache
	data, err = f.Fetch(ctx, srv.URL+"/logo.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, int32(1), hits.Load())
}

func TestLogoFetcher_SizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	f := NewLogoFetcher(NewInMemoryAssetCache(8), 1024, time.Minute, nil)

	_, err := f.Fetch(context.Background(), srv.URL+"/logo.png")
	assert.ErrorIs(t, err, ErrAssetTooLarge)
}

func TestLogoFetcher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewLogoFetcher(nil, 1024, time.Minute, nil)

	_, err := f.Fetch(context.Background(), srv.URL+"/missing.png")
	assert.Error(t, err)
}

func TestLogoFetcher_RejectsNonHTTP(t *testing.T) {
	f := NewLogoFetcher(nil, 1024, time.Minute, nil)
	ctx := context.Background()

	_, err := f.Fetch(ctx, "")
	assert.Error(t, err)
	_, err = f.Fetch(ctx, "file:///etc/passwd")
	assert.Error(t, err)
	_, err = f.Fetch(ctx, "ftp://example.com/logo.png")
	assert.Error(t, err)
}
