package data

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// DefaultBlockSize matches the block size progress hooks are reported in.
const DefaultBlockSize = 8 * 1024

// ErrUnknownSize is returned when the server does not report a content length,
// so no completion percentage can be computed.
var ErrUnknownSize = errors.New("download: total size unknown")

// ProgressFunc is called once before the first block and once after every
// block received: count blocks of blockSize bytes out of totalSize.
type ProgressFunc func(count, blockSize int, totalSize int64)

// PercentHook adapts a percentage callback to a ProgressFunc.
// Percentages are capped at 100.
func PercentHook(update func(percent int)) ProgressFunc {
	return func(count, blockSize int, totalSize int64) {
		pct := int64(count) * int64(blockSize) * 100 / totalSize
		if pct > 100 {
			pct = 100
		}
		update(int(pct))
	}
}

// DownloadError reports a non-success HTTP response.
type DownloadError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %s", e.URL, e.Status)
}

// Downloader fetches remote files to disk. A single attempt is made per call.
type Downloader struct {
	Client    *http.Client
	BlockSize int
	Logger    *zap.Logger
}

// NewDownloader creates a downloader whose client has no timeout; a transfer
// runs until it completes or ctx is cancelled. If logger is nil, a no-op
// logger is used.
func NewDownloader(logger *zap.Logger) *Downloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Downloader{
		Client:    &http.Client{},
		BlockSize: DefaultBlockSize,
		Logger:    logger,
	}
}

// Retrieve downloads url to file, reporting progress to hook (may be nil).
// The partial file is removed if the transfer fails.
func (d *Downloader) Retrieve(ctx context.Context, url, file string, hook ProgressFunc) (err error) {
	bs := d.BlockSize
	if bs <= 0 {
		bs = DefaultBlockSize
	}
	log := d.Logger.With(zap.String("url", url), zap.String("file", file))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := d.Client.Do(req)
	if err != nil {
		log.Error("download request failed", zap.Error(err))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("download rejected", zap.Int("status", resp.StatusCode))
		return &DownloadError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	total := resp.ContentLength
	if total <= 0 && hook != nil {
		return ErrUnknownSize
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(file)
		}
	}()

	log.Info("downloading", zap.Int64("bytes", total))
	if hook != nil {
		hook(0, bs, total)
	}

	buf := make([]byte, bs)
	var written int64
	count := 0
	for {
		n, rerr := io.ReadFull(resp.Body, buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				return werr
			}
			written += int64(n)
			count++
			if hook != nil {
				hook(count, bs, total)
			}
		}
		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			break
		}
		if rerr != nil {
			log.Error("download interrupted", zap.Int64("written", written), zap.Error(rerr))
			return fmt.Errorf("download %s: %w", url, rerr)
		}
	}

	if total > 0 && written < total {
		return fmt.Errorf("download %s: retrieval incomplete, got %d of %d bytes: %w", url, written, total, io.ErrUnexpectedEOF)
	}
	log.Info("download finished", zap.Int64("bytes", written), zap.Duration("duration", time.Since(start)))
	return nil
}

// ProgressRetrieve downloads url to file with the default downloader,
// passing the completion percentage to update after every block.
func ProgressRetrieve(ctx context.Context, url, file string, update func(percent int)) error {
	return NewDownloader(nil).Retrieve(ctx, url, file, PercentHook(update))
}
