package data

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieveReportsMonotonicProgress(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 10*1000+123)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	d := NewDownloader(nil)
	d.BlockSize = 1000
	var seen []int
	file := filepath.Join(t.TempDir(), "bundle", "data.bin")

	err := d.Retrieve(context.Background(), srv.URL, file, PercentHook(func(p int) { seen = append(seen, p) }))
	require.NoError(t, err)

	got, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	require.NotEmpty(t, seen)
	assert.Equal(t, 0, seen[0])
	assert.Equal(t, 100, seen[len(seen)-1])
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1])
	}
	// one call before the first block, then one per block
	assert.Len(t, seen, 12)
}

func TestRetrieveUnknownSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// flushing before writing forces a chunked response without a length
		w.(http.Flusher).Flush()
		_, _ = w.Write([]byte("partial"))
	}))
	defer srv.Close()

	file := filepath.Join(t.TempDir(), "data.bin")
	err := ProgressRetrieve(context.Background(), srv.URL, file, func(int) {})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSize))

	_, statErr := os.Stat(file)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRetrieveHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	err := ProgressRetrieve(context.Background(), srv.URL, filepath.Join(t.TempDir(), "x"), func(int) {})
	var dlErr *DownloadError
	require.True(t, errors.As(err, &dlErr))
	assert.Equal(t, http.StatusNotFound, dlErr.StatusCode)
}

func TestRetrieveTruncatedBodyRemovesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "5000")
		_, _ = w.Write(bytes.Repeat([]byte("y"), 1200))
		w.(http.Flusher).Flush()
		// hijack and close so the client sees a short body
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			_ = conn.Close()
		}
	}))
	defer srv.Close()

	file := filepath.Join(t.TempDir(), "short.bin")
	err := ProgressRetrieve(context.Background(), srv.URL, file, func(int) {})
	require.Error(t, err)

	_, statErr := os.Stat(file)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPercentHookCaps(t *testing.T) {
	var got int
	PercentHook(func(p int) { got = p })(3, 1000, 2500)
	assert.Equal(t, 100, got)
	PercentHook(func(p int) { got = p })(1, 1000, 4000)
	assert.Equal(t, 25, got)
}

func TestDownloaderHasNoClientTimeout(t *testing.T) {
	d := NewDownloader(nil)
	assert.Zero(t, d.Client.Timeout)
}

func TestRetrieveStopsOnCancel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	file := filepath.Join(t.TempDir(), "slow.bin")
	err := NewDownloader(nil).Retrieve(ctx, srv.URL, file, func(count, _ int, _ int64) {
		if count == 0 {
			cancel()
		}
	})
	require.Error(t, err)
	assert.NoFileExists(t, file)
}
