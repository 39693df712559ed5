package catalog

import (
	"fmt"

	"github.com/teamcutter/pybox/internal/domain"
)

// HostedBuild is one of the Python versions pre-built and published as a
// downloadable archive. The set is closed: it is fixed when this tool is
// built, never discovered at runtime.
type HostedBuild struct {
	Version domain.Version
}

// Every version we have built and hosted, newest first.
var hosted = []HostedBuild{
	{Version: domain.NewVersion(3, 7, 4)},
	{Version: domain.NewVersion(3, 6, 9)},
	{Version: domain.NewVersion(3, 5, 6)},
	{Version: domain.NewVersion(3, 4, 10)},
}

// Hosted returns the full hosted set, newest first.
func Hosted() []HostedBuild {
	out := make([]HostedBuild, len(hosted))
	copy(out, hosted)
	return out
}

// Match maps a requested version to the hosted build sharing its major and
// minor. A request outside the hosted set is a configuration error: the
// catalog cannot change at runtime, so there is nothing to retry.
func Match(requested domain.Version) (HostedBuild, error) {
	if requested.Major != 3 {
		return HostedBuild{}, domain.ErrUnsupportedMajor
	}
	for _, b := range hosted {
		if b.Version.Minor == requested.Minor {
			return b, nil
		}
	}
	return HostedBuild{}, domain.ErrUnsupportedMinor
}

// ArchiveName is the artifact filename, e.g. "python-3.7.4-ubuntu.tar.xz".
func (b HostedBuild) ArchiveName(p domain.Platform) string {
	return fmt.Sprintf("python-%s-%s.tar.xz", b.Version, p.Tag())
}

// ExtractedDirName is the OS-tagged folder the archive unpacks to.
func (b HostedBuild) ExtractedDirName(p domain.Platform) string {
	return fmt.Sprintf("python-%s-%s", b.Version, p.Tag())
}

// InstallDirName is the canonical folder name after the OS tag is stripped,
// the name install scans look for.
func (b HostedBuild) InstallDirName() string {
	return fmt.Sprintf("python-%s", b.Version)
}

// URL is the release download location. The release tag equals the dotted
// version string.
func (b HostedBuild) URL(baseURL string, p domain.Platform) string {
	return fmt.Sprintf("%s/%s/%s", baseURL, b.Version, b.ArchiveName(p))
}
