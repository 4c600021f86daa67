package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestDownloadHTTP(t *testing.T) {
	payload := []byte("not really a GeoTIFF")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "out.tif")
	if err := Download(context.Background(), server.URL+"/out.tif", dest); err != nil {
		t.Fatalf("Download: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("unexpected file content %q", data)
	}
}

func TestDownloadHTTPReportsProgress(t *testing.T) {
	payload := make([]byte, 100*1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		w.Write(payload)
	}))
	defer server.Close()

	var calls int
	var last, total int64
	dest := filepath.Join(t.TempDir(), "out.bin")
	err := DownloadWithProgress(context.Background(), server.URL, dest, func(downloaded, t int64) {
		calls++
		last = downloaded
		total = t
	})
	if err != nil {
		t.Fatalf("DownloadWithProgress: %v", err)
	}
	if calls < 2 {
		t.Fatalf("expected multiple progress callbacks, got %d", calls)
	}
	if last != int64(len(payload)) {
		t.Fatalf("final progress %d, want %d", last, len(payload))
	}
	if total != int64(len(payload)) {
		t.Fatalf("announced total %d, want %d", total, len(payload))
	}
}

func TestDownloadHTTPBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "out.tif")
	if err := Download(context.Background(), server.URL, dest); err == nil {
		t.Fatal("expected an error for 404")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatal("destination file should not be left behind")
	}
}

func TestDownloadUnsupportedScheme(t *testing.T) {
	err := Download(context.Background(), "ftp://example.test/file", filepath.Join(t.TempDir(), "f"))
	if err == nil {
		t.Fatal("expected an error for unsupported scheme")
	}
}
