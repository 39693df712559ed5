// Package installer downloads a hosted interpreter build and lands it in
// the installs directory under its canonical folder name.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/teamcutter/pybox/internal/catalog"
	"github.com/teamcutter/pybox/internal/domain"
)

var cyan = color.New(color.FgCyan).SprintFunc()

type Installer struct {
	fetcher     domain.Fetcher
	extractor   domain.Extractor
	installsDir string
	platform    domain.Platform
	baseURL     string
	checksums   map[string]string
}

func New(
	fetcher domain.Fetcher,
	extractor domain.Extractor,
	installsDir string,
	platform domain.Platform,
	baseURL string,
	checksums map[string]string,
) *Installer {

	return &Installer{
		fetcher:     fetcher,
		extractor:   extractor,
		installsDir: installsDir,
		platform:    platform,
		baseURL:     baseURL,
		checksums:   checksums,
	}
}

// Install fetches, extracts and renames one hosted build. The archive is the
// only caching layer: if a file with the exact expected name is already in
// the installs directory the fetch is skipped. A corrupt or truncated
// archive with the right name is indistinguishable from a good one and will
// fail at extraction rather than be re-fetched.
//
// Two overlapping installs of the same version race on the extracted folder;
// there is no locking. The archive itself is written temp-then-rename, so a
// concurrent run never reads a partial download.
//
// Each step is a hard failure point with no retry. Returns the install
// directory, e.g. <installs>/python-3.7.4.
func (i *Installer) Install(ctx context.Context, build catalog.HostedBuild) (string, error) {
	if err := os.MkdirAll(i.installsDir, 0755); err != nil {
		return "", fmt.Errorf("creating installs directory %s: %w", i.installsDir, err)
	}

	archivePath := filepath.Join(i.installsDir, build.ArchiveName(i.platform))
	_, err := os.Stat(archivePath)
	switch {
	case err == nil:
		// cached archive, skip the fetch
	case os.IsNotExist(err):
		result := i.fetcher.Fetch(ctx, domain.FetchJob{
			URL:    build.URL(i.baseURL, i.platform),
			Dest:   archivePath,
			Label:  fmt.Sprintf("Python %s", build.Version),
			SHA256: i.checksums[build.Version.String()],
		})
		if result.Error != nil {
			return "", fmt.Errorf("downloading Python %s: %w", build.Version, result.Error)
		}
	default:
		return "", fmt.Errorf("checking archive %s: %w", archivePath, err)
	}

	fmt.Printf("%s\n", cyan(fmt.Sprintf("Installing Python %s...", build.Version)))

	if err := i.extractor.Extract(archivePath, i.installsDir); err != nil {
		return "", fmt.Errorf("extracting %s: %w", archivePath, err)
	}

	// Strip the OS tag so install scans find the build no matter which
	// platform produced it. A leftover canonical folder from an earlier run
	// is replaced by the fresh extraction.
	extracted := filepath.Join(i.installsDir, build.ExtractedDirName(i.platform))
	installDir := filepath.Join(i.installsDir, build.InstallDirName())

	if err := os.RemoveAll(installDir); err != nil {
		return "", fmt.Errorf("removing stale install %s: %w", installDir, err)
	}
	if err := os.Rename(extracted, installDir); err != nil {
		return "", fmt.Errorf("renaming extracted Python folder: %w", err)
	}

	return installDir, nil
}
