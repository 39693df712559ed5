package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/teamcutter/pybox/internal/domain"
)

type HTTPFetcher struct {
	client  *http.Client
	timeout time.Duration
}

func New(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Fetch downloads job.URL to job.Dest. The body is written to a temp file
// next to the destination and renamed into place only once complete, so a
// partially written download never carries the final archive name.
func (f *HTTPFetcher) Fetch(ctx context.Context, job domain.FetchJob) domain.FetchResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.URL, nil)
	if err != nil {
		return domain.FetchResult{Error: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.FetchResult{Error: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.FetchResult{Error: fmt.Errorf("unexpected status: %d", resp.StatusCode)}
	}

	if err := os.MkdirAll(filepath.Dir(job.Dest), 0755); err != nil {
		return domain.FetchResult{Error: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(job.Dest), filepath.Base(job.Dest)+".*.partial")
	if err != nil {
		return domain.FetchResult{Error: err}
	}
	defer os.Remove(tmp.Name())

	bar := progressbar.DefaultBytes(
		resp.ContentLength,
		fmt.Sprintf("Downloading %s", job.Label),
	)

	if _, err := io.Copy(io.MultiWriter(tmp, bar), resp.Body); err != nil {
		tmp.Close()
		return domain.FetchResult{Error: err}
	}
	if err := tmp.Close(); err != nil {
		return domain.FetchResult{Error: err}
	}

	if job.SHA256 != "" {
		actual, err := computeChecksum(tmp.Name())
		if err != nil {
			return domain.FetchResult{Error: err}
		}
		if actual != job.SHA256 {
			return domain.FetchResult{
				Error: fmt.Errorf("checksum mismatch: expected %s, got %s", job.SHA256, actual),
			}
		}
	}

	if err := os.Rename(tmp.Name(), job.Dest); err != nil {
		return domain.FetchResult{Error: err}
	}

	return domain.FetchResult{Path: job.Dest}
}

func computeChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
