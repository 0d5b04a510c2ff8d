package domain

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Content types attached to returned artifacts
const (
	ContentTypeText  = "text/plain"
	ContentTypeJSON  = "application/json"
	ContentTypeZip   = "application/zip"
	ContentTypeOctet = "application/octet-stream"
	ContentTypeWasm  = "application/wasm"
)

// MaxUploadSize is the ceiling enforced on every incoming file before it is read
const MaxUploadSize int64 = 100 * 1024 * 1024

// FileHandle is an uploaded file whose size is known before its content is read
type FileHandle struct {
	Name        string
	ContentType string
	Size        int64
	open        func() (io.ReadCloser, error)
}

// NewFileFromBytes wraps an in-memory payload
func NewFileFromBytes(name string, data []byte) *FileHandle {
	return &FileHandle{
		Name: name,
		Size: int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// NewFileFromReader wraps a reader with a caller-declared size
func NewFileFromReader(name string, size int64, open func() (io.ReadCloser, error)) *FileHandle {
	return &FileHandle{Name: name, Size: size, open: open}
}

// NewFileFromPath wraps a file on disk
func NewFileFromPath(path string) (*FileHandle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &FileHandle{
		Name: filepath.Base(path),
		Size: info.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// Open returns a fresh reader over the file content
func (f *FileHandle) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("file %q has no content", f.Name)
	}
	return f.open()
}

// ReadAll reads the whole file, never more than Size bytes
func (f *FileHandle) ReadAll() ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, f.Size))
}

// Ext returns the lowercased extension including the dot
func (f *FileHandle) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// Stem returns the base name without extension
func (f *FileHandle) Stem() string {
	base := filepath.Base(f.Name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// GeneratedArtifact is a rendered source file or a packaged project
type GeneratedArtifact struct {
	Content     []byte `json:"-"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

// CompiledArtifact is the output of a successful compile
type CompiledArtifact struct {
	Bytecode     []byte `json:"-"`
	BytecodeName string `json:"bytecodeName"`
	Schema       []byte `json:"-"`
	SchemaName   string `json:"schemaName,omitempty"`
	ContentType  string `json:"contentType"`
}

// HasSchema reports whether a companion schema or ABI was produced
func (a *CompiledArtifact) HasSchema() bool {
	return len(a.Schema) > 0
}

// DeploymentResult is the terminal outcome of a deployment
type DeploymentResult struct {
	Chain         ChainTarget `json:"chain"`
	Address       string      `json:"address"`
	Success       bool        `json:"success"`
	TransactionID string      `json:"transactionId"`
}
