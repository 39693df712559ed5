package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/teamcutter/pybox/internal/domain"
)

func TestFetch(t *testing.T) {
	body := []byte("archive bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "python-3.7.4-ubuntu.tar.xz")
	f := New(10 * time.Second)

	result := f.Fetch(context.Background(), domain.FetchJob{URL: srv.URL, Dest: dst, Label: "Python 3.7.4"})
	if result.Error != nil {
		t.Fatalf("Fetch error: %v", result.Error)
	}
	if result.Path != dst {
		t.Errorf("result path = %q, want %q", result.Path, dst)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(body) {
		t.Errorf("downloaded bytes = %q", got)
	}

	// No partial temp files left behind.
	entries, _ := os.ReadDir(filepath.Dir(dst))
	for _, e := range entries {
		if strings.Contains(e.Name(), ".partial") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "archive.tar.xz")
	result := New(10 * time.Second).Fetch(context.Background(), domain.FetchJob{URL: srv.URL, Dest: dst})
	if result.Error == nil {
		t.Fatal("expected error for 404")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("destination file created despite failed fetch")
	}
}

func TestFetchChecksum(t *testing.T) {
	body := []byte("archive bytes")
	sum := sha256.Sum256(body)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := New(10 * time.Second)

	good := f.Fetch(context.Background(), domain.FetchJob{
		URL:    srv.URL,
		Dest:   filepath.Join(dir, "good.tar.xz"),
		SHA256: hex.EncodeToString(sum[:]),
	})
	if good.Error != nil {
		t.Fatalf("Fetch with matching checksum failed: %v", good.Error)
	}

	bad := f.Fetch(context.Background(), domain.FetchJob{
		URL:    srv.URL,
		Dest:   filepath.Join(dir, "bad.tar.xz"),
		SHA256: strings.Repeat("0", 64),
	})
	if bad.Error == nil || !strings.Contains(bad.Error.Error(), "checksum mismatch") {
		t.Errorf("error = %v, want checksum mismatch", bad.Error)
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.tar.xz")); !os.IsNotExist(err) {
		t.Error("mismatched download renamed into place")
	}
}
