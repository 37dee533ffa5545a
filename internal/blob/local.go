package blob

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// LocalUploader stores attachments on local disk under a directory served
// by the API's static file route. Development/single-instance use.
type LocalUploader struct {
	dir     string
	baseURL string
}

// NewLocalUploader creates a disk-backed uploader. dir is created if
// missing; baseURL is the externally visible prefix for stored files
// (e.g. "http://localhost:8080/static/uploads").
func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailure, err)
	}
	log.Printf("[LocalUploader] Storing attachments in %s", dir)
	return &LocalUploader{dir: dir, baseURL: baseURL}, nil
}

// Upload writes the attachment to disk and returns its URL.
func (u *LocalUploader) Upload(ctx context.Context, fileName string, data []byte, contentType string) (string, error) {
	name := filepath.Base(fileName) // no path traversal via file names
	if err := os.WriteFile(filepath.Join(u.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailure, err)
	}
	return u.baseURL + "/" + name, nil
}

var _ Uploader = (*LocalUploader)(nil)
