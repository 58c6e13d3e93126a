package photoheart

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// ErrNoPhotos reports that a load batch produced no usable image.
var ErrNoPhotos = errors.New("photoheart: no photos loaded")

// maxPhotoBytes bounds a single download or file read.
const maxPhotoBytes = 32 << 20

// LoadResult is the outcome of one photo load. Exactly one of Image and Err
// is non-nil.
type LoadResult struct {
	Path  string
	Image image.Image
	Err   error
}

// LoadOptions tunes LoadPhotos.
type LoadOptions struct {
	// FS serves relative paths. Nil reads from the OS file system.
	FS fs.FS
	// Client fetches http(s) paths. Nil uses http.DefaultClient.
	Client *http.Client
	// Timeout bounds each load. Zero means no per-asset limit.
	Timeout time.Duration
	// Concurrency caps parallel loads. Zero or negative means no cap.
	Concurrency int
}

// LoadPhotos loads and decodes every path concurrently and returns one
// result per path in input order. A failed asset never aborts the batch;
// cancelling ctx fails the loads that have not finished.
func LoadPhotos(ctx context.Context, paths []string, opts LoadOptions) []LoadResult {
	results := make([]LoadResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i, path := range paths {
		g.Go(func() error {
			img, err := loadPhoto(gctx, path, opts)
			results[i] = LoadResult{Path: path, Image: img, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// loadPhoto runs one load under the per-asset timeout. File reads cannot be
// interrupted, so the read runs in its own goroutine and is abandoned on
// timeout.
func loadPhoto(ctx context.Context, path string, opts LoadOptions) (image.Image, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	type readResult struct {
		data []byte
		err  error
	}
	done := make(chan readResult, 1)
	go func() {
		data, err := readPhoto(ctx, path, opts)
		done <- readResult{data, err}
	}()

	var r readResult
	select {
	case r = <-done:
	case <-ctx.Done():
		return nil, fmt.Errorf("load %s: %w", path, ctx.Err())
	}
	if r.err != nil {
		return nil, fmt.Errorf("load %s: %w", path, r.err)
	}

	img, _, err := image.Decode(bytes.NewReader(r.data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func readPhoto(ctx context.Context, path string, opts LoadOptions) ([]byte, error) {
	if isURL(path) {
		return fetchPhoto(ctx, path, opts.Client)
	}
	if opts.FS != nil {
		f, err := opts.FS.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxPhotoBytes))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxPhotoBytes))
}

func fetchPhoto(ctx context.Context, url string, client *http.Client) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
}

// LoadSummary counts the outcome of a batch.
type LoadSummary struct {
	Requested int
	Loaded    int
	Failed    []string
}

// Summarize logs each failure and returns the batch counts.
func Summarize(results []LoadResult) LoadSummary {
	s := LoadSummary{Requested: len(results)}
	for _, r := range results {
		if r.Err != nil {
			log.Printf("[photoheart] photo skipped: %v", r.Err)
			s.Failed = append(s.Failed, r.Path)
			continue
		}
		s.Loaded++
	}
	return s
}

// Err returns ErrNoPhotos when nothing loaded.
func (s LoadSummary) Err() error {
	if s.Loaded == 0 {
		return ErrNoPhotos
	}
	return nil
}
