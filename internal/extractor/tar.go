package extractor

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

type TARExtractor struct{}

func NewTAR() *TARExtractor {
	return &TARExtractor{}
}

func (te *TARExtractor) Extract(src, dst string) error {
	file, err := os.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()

	reader, cleanup, err := sniffDecompressor(file)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	tr := tar.NewReader(reader)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := writeEntry(tr, header, dst); err != nil {
			return err
		}
	}
}

func writeEntry(tr *tar.Reader, header *tar.Header, dst string) error {
	if strings.Contains(header.Name, "..") {
		return fmt.Errorf("invalid path in archive: %s", header.Name)
	}
	target := filepath.Join(dst, header.Name)

	switch header.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(target, 0755)

	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		// Interpreter binaries must keep their executable bits.
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, header.FileInfo().Mode())
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return err
		}
		return out.Close()

	case tar.TypeSymlink:
		// Python builds link python3 -> python3.x inside bin.
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		os.Remove(target)
		return os.Symlink(header.Linkname, target)
	}
	return nil
}

// sniffDecompressor picks the decompressor from the file's magic bytes.
// Magic number reference: https://gist.github.com/leommoore/f9e57ba2aa4bf197ebc5
func sniffDecompressor(file *os.File) (io.Reader, func(), error) {
	magic := make([]byte, 6)
	n, _ := file.Read(magic)
	magic = magic[:n]
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}

	switch {
	case hasMagic(magic, 0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00):
		// xz, the format the hosted builds actually use
		xzr, err := xz.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("xz: %w", err)
		}
		return xzr, nil, nil

	case hasMagic(magic, 0x28, 0xb5, 0x2f, 0xfd):
		zr, err := zstd.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return zr, func() { zr.Close() }, nil

	case hasMagic(magic, 0x1f, 0x8b):
		gzr, err := gzip.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return gzr, func() { gzr.Close() }, nil

	case hasMagic(magic, 0x42, 0x5a):
		return bzip2.NewReader(file), nil, nil

	default:
		// plain tar
		return file, nil, nil
	}
}

func hasMagic(b []byte, magic ...byte) bool {
	if len(b) < len(magic) {
		return false
	}
	for i, m := range magic {
		if b[i] != m {
			return false
		}
	}
	return true
}
