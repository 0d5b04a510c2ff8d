package workspace

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/trebuchet-org/scgen/internal/domain"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// zipEpoch is stamped on every entry so identical trees pack to identical bytes
var zipEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// maxExtractedSize bounds the total uncompressed size of an extracted archive
const maxExtractedSize = 4 * domain.MaxUploadSize

// Zip packs and extracts zip archives
type Zip struct{}

// NewZip creates a new zip archiver
func NewZip() *Zip {
	return &Zip{}
}

// Extract unpacks archive into dest. Entries escaping dest are rejected with
// a validation error.
func (z *Zip) Extract(archive *domain.FileHandle, dest string) error {
	data, err := archive.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return domain.NewValidationError(archive.Name, "not a valid zip archive")
	}

	var total int64
	for _, f := range reader.File {
		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return domain.NewValidationError(archive.Name, "entry %q escapes the archive root", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", target, err)
			}
			continue
		}

		total += int64(f.UncompressedSize64)
		if total > maxExtractedSize {
			return domain.NewValidationError(archive.Name, "archive expands beyond %d bytes", maxExtractedSize)
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}

	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
	}

	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer src.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return dst.Close()
}

// Pack zips the tree rooted at dir. Entries are written in lexical order with
// fixed timestamps.
func (z *Zip) Pack(dir string) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Modified = zipEpoch

		if d.IsDir() {
			header.Name = name + "/"
			_, err := w.CreateHeader(header)
			return err
		}

		header.Name = name
		header.Method = zip.Deflate
		entry, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(entry, f)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", dir, err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// safeJoin joins name onto root and rejects results outside root
func safeJoin(root, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("absolute path %q", name)
	}
	target := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes root", name)
	}
	return target, nil
}

var _ usecase.Archiver = (*Zip)(nil)
