package installer

import (
	"archive/tar"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"

	"github.com/teamcutter/pybox/internal/catalog"
	"github.com/teamcutter/pybox/internal/domain"
	"github.com/teamcutter/pybox/internal/extractor"
)

// writingFetcher plays the release host: it writes the scripted archive
// bytes to the destination and counts how often it was asked to.
type writingFetcher struct {
	archive []byte
	calls   int
	lastURL string
}

func (f *writingFetcher) Fetch(_ context.Context, job domain.FetchJob) domain.FetchResult {
	f.calls++
	f.lastURL = job.URL
	if err := os.WriteFile(job.Dest, f.archive, 0644); err != nil {
		return domain.FetchResult{Error: err}
	}
	return domain.FetchResult{Path: job.Dest}
}

// buildArchive produces a tar.xz shaped like a hosted Python build:
// <topDir>/bin/python3 with the executable bit set.
func buildArchive(t *testing.T, topDir string) []byte {
	t.Helper()

	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	tw := tar.NewWriter(xw)

	dirs := []string{topDir + "/", topDir + "/bin/"}
	for _, d := range dirs {
		if err := tw.WriteHeader(&tar.Header{Name: d, Typeflag: tar.TypeDir, Mode: 0755}); err != nil {
			t.Fatal(err)
		}
	}

	content := []byte("#!/bin/sh\necho Python 3.7.4\n")
	if err := tw.WriteHeader(&tar.Header{
		Name:     topDir + "/bin/python3",
		Typeflag: tar.TypeReg,
		Mode:     0755,
		Size:     int64(len(content)),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatal(err)
	}

	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := xw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func mustMatch(t *testing.T, v domain.Version) catalog.HostedBuild {
	t.Helper()
	build, err := catalog.Match(v)
	if err != nil {
		t.Fatal(err)
	}
	return build
}

func TestInstall(t *testing.T) {
	dir := t.TempDir()
	build := mustMatch(t, domain.NewVersion(3, 7, 0))

	fetch := &writingFetcher{archive: buildArchive(t, "python-3.7.4-ubuntu")}
	inst := New(fetch, extractor.New(), dir, domain.Linux, "https://host/releases", nil)

	installDir, err := inst.Install(context.Background(), build)
	if err != nil {
		t.Fatalf("Install error: %v", err)
	}

	if installDir != filepath.Join(dir, "python-3.7.4") {
		t.Errorf("install dir = %q", installDir)
	}
	if fetch.lastURL != "https://host/releases/3.7.4/python-3.7.4-ubuntu.tar.xz" {
		t.Errorf("fetched URL = %q", fetch.lastURL)
	}

	// The OS tag is stripped from the extracted folder.
	if _, err := os.Stat(filepath.Join(installDir, "bin", "python3")); err != nil {
		t.Errorf("interpreter missing from install dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "python-3.7.4-ubuntu")); !os.IsNotExist(err) {
		t.Error("OS-tagged folder still present after rename")
	}
}

func TestInstallSkipsFetchWhenArchiveCached(t *testing.T) {
	dir := t.TempDir()
	build := mustMatch(t, domain.NewVersion(3, 7, 0))

	fetch := &writingFetcher{archive: buildArchive(t, "python-3.7.4-ubuntu")}
	inst := New(fetch, extractor.New(), dir, domain.Linux, "https://host/releases", nil)

	if _, err := inst.Install(context.Background(), build); err != nil {
		t.Fatalf("first Install error: %v", err)
	}
	installDir, err := inst.Install(context.Background(), build)
	if err != nil {
		t.Fatalf("second Install error: %v", err)
	}

	if fetch.calls != 1 {
		t.Errorf("fetch called %d times, want 1 (archive cached)", fetch.calls)
	}
	if _, err := os.Stat(filepath.Join(installDir, "bin", "python3")); err != nil {
		t.Errorf("second run did not produce the canonical folder: %v", err)
	}
}

func TestInstallCorruptCachedArchiveFailsWithoutRefetch(t *testing.T) {
	dir := t.TempDir()
	build := mustMatch(t, domain.NewVersion(3, 7, 0))

	// A truncated download from a previous run carries the expected name.
	// It is indistinguishable from a good archive, so the fetch is skipped
	// and extraction fails; there is no silent re-fetch.
	archivePath := filepath.Join(dir, build.ArchiveName(domain.Linux))
	if err := os.WriteFile(archivePath, []byte("truncated garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	fetch := &writingFetcher{archive: buildArchive(t, "python-3.7.4-ubuntu")}
	inst := New(fetch, extractor.New(), dir, domain.Linux, "https://host/releases", nil)

	if _, err := inst.Install(context.Background(), build); err == nil {
		t.Fatal("expected extraction failure for corrupt archive")
	}
	if fetch.calls != 0 {
		t.Errorf("fetch called %d times for a cached archive, want 0", fetch.calls)
	}
}

func TestInstallReportsUnreadableArchive(t *testing.T) {
	dir := t.TempDir()
	build := mustMatch(t, domain.NewVersion(3, 7, 0))

	// A self-referential symlink under the archive name makes the cache
	// check fail with something other than not-exist. That is neither a
	// cache hit nor a miss and must surface, not trigger a fetch onto a
	// path we cannot even stat.
	archivePath := filepath.Join(dir, build.ArchiveName(domain.Linux))
	if err := os.Symlink(build.ArchiveName(domain.Linux), archivePath); err != nil {
		t.Fatal(err)
	}

	fetch := &writingFetcher{archive: buildArchive(t, "python-3.7.4-ubuntu")}
	inst := New(fetch, extractor.New(), dir, domain.Linux, "https://host/releases", nil)

	_, err := inst.Install(context.Background(), build)
	if err == nil {
		t.Fatal("expected error for unreadable archive path")
	}
	if !strings.Contains(err.Error(), "checking archive") {
		t.Errorf("error = %v, want the cache check to be named", err)
	}
	if fetch.calls != 0 {
		t.Errorf("fetch called %d times, want 0", fetch.calls)
	}
}
