package photoheart

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadPhotosPreservesOrderAndReportsFailures(t *testing.T) {
	fsys := fstest.MapFS{
		"photos/a.png": {Data: pngBytes(t, 4, 2)},
		"photos/c.png": {Data: pngBytes(t, 3, 3)},
		"photos/d.png": {Data: []byte("not an image")},
	}
	paths := []string{"photos/a.png", "photos/b.png", "photos/c.png", "photos/d.png"}
	results := LoadPhotos(context.Background(), paths, LoadOptions{FS: fsys, Concurrency: 2})

	if len(results) != len(paths) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(paths))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("results[%d].Path = %q, want %q", i, r.Path, paths[i])
		}
	}
	if results[0].Err != nil || results[0].Image.Bounds().Dx() != 4 {
		t.Errorf("a.png: %+v", results[0])
	}
	if results[1].Err == nil || results[1].Image != nil {
		t.Errorf("b.png should fail as missing: %+v", results[1])
	}
	if results[2].Err != nil || results[2].Image.Bounds().Dx() != 3 {
		t.Errorf("c.png: %+v", results[2])
	}
	if results[3].Err == nil || !strings.Contains(results[3].Err.Error(), "decode") {
		t.Errorf("d.png should fail to decode: %v", results[3].Err)
	}
}

func TestLoadPhotosHTTP(t *testing.T) {
	data := pngBytes(t, 5, 5)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok.png" {
			_, _ = w.Write(data)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	results := LoadPhotos(context.Background(),
		[]string{srv.URL + "/ok.png", srv.URL + "/missing.png"},
		LoadOptions{Client: srv.Client()})

	if results[0].Err != nil {
		t.Errorf("ok.png: %v", results[0].Err)
	}
	if results[1].Err == nil || !strings.Contains(results[1].Err.Error(), "404") {
		t.Errorf("missing.png err = %v, want 404 status", results[1].Err)
	}
}

func TestLoadPhotosTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	results := LoadPhotos(context.Background(), []string{srv.URL + "/hang.png"},
		LoadOptions{Client: srv.Client(), Timeout: 50 * time.Millisecond})
	if !errors.Is(results[0].Err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", results[0].Err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
}

func TestLoadPhotosCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fsys := fstest.MapFS{"a.png": {Data: pngBytes(t, 2, 2)}}
	results := LoadPhotos(ctx, []string{"a.png", "a.png"}, LoadOptions{FS: fsys})
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("results[%d].Err = %v, want Canceled", i, r.Err)
		}
	}
}

func TestLoadPhotosEmpty(t *testing.T) {
	if got := LoadPhotos(context.Background(), nil, LoadOptions{}); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]LoadResult{
		{Path: "a", Image: image.NewRGBA(image.Rect(0, 0, 1, 1))},
		{Path: "b", Err: errors.New("boom")},
	})
	if s.Requested != 2 || s.Loaded != 1 || len(s.Failed) != 1 {
		t.Errorf("Summarize = %+v", s)
	}
	if err := (LoadSummary{Requested: 3}).Err(); !errors.Is(err, ErrNoPhotos) {
		t.Errorf("Err() = %v, want ErrNoPhotos", err)
	}
}
