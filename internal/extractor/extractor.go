// Package extractor unpacks downloaded interpreter archives. The hosted
// builds are tar.xz, but the decompressor is chosen by sniffing magic bytes
// rather than trusting the filename.
package extractor

import (
	"fmt"
	"strings"
)

type Extractor struct {
	tar *TARExtractor
}

func New() *Extractor {
	return &Extractor{tar: NewTAR()}
}

func (e *Extractor) Extract(src, dst string) error {
	if !isTarArchive(strings.ToLower(src)) {
		return fmt.Errorf("unsupported archive format: %s", src)
	}
	return e.tar.Extract(src, dst)
}

func isTarArchive(name string) bool {
	tarExts := []string{".tar.gz", ".tar.zst", ".tar.xz", ".tar.bz2", ".tgz", ".txz", ".tzst", ".tbz2", ".tar"}
	for _, ext := range tarExts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
