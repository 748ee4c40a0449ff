// Package assets implements the upload boundary: files go in, public URLs
// come out.
//
// The engine and canvas only ever see the [Uploader] interface; the disk
// implementation here serves single-instance deployments and local
// development, with object storage slotting in behind the same interface
// in hosted setups. Uploads are content-addressed, so retrying the same
// file is idempotent and returns the same URL.
package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cardpress/cardpress/pkg/errors"
)

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// DiskUploader writes uploads into a directory served at a public base
// URL. Files are named by content hash plus the original extension.
type DiskUploader struct {
	dir     string
	baseURL string
}

// NewDiskUploader creates the upload directory if needed.
func NewDiskUploader(dir, baseURL string) (*DiskUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUploadFailed, err, "creating upload dir %s", dir)
	}
	return &DiskUploader{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload stores the file content-addressed and returns its URL. Uploading
// identical bytes twice yields the same URL and rewrites the same file,
// which keeps repeated calls safe.
func (u *DiskUploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodeUploadFailed, err, "upload canceled")
	}
	if err := errors.ValidateFilename(filename); err != nil {
		return "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUploadFailed, err, "reading upload %s", filename)
	}

	sum := sha256.Sum256(data)
	name := hex.EncodeToString(sum[:16]) + strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(u.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeUploadFailed, err, "writing %s", path)
	}
	return u.baseURL + "/" + name, nil
}

// MemoryUploader keeps uploads in memory, for tests and previews that
// never need a real file to exist.
type MemoryUploader struct {
	mu      sync.Mutex
	baseURL string
	files   map[string][]byte
}

// NewMemoryUploader creates an in-memory uploader rooted at baseURL.
func NewMemoryUploader(baseURL string) *MemoryUploader {
	return &MemoryUploader{
		baseURL: strings.TrimRight(baseURL, "/"),
		files:   make(map[string][]byte),
	}
}

// Upload stores the bytes under a content-hash name.
func (u *MemoryUploader) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	if err := errors.ValidateFilename(filename); err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUploadFailed, err, "reading upload %s", filename)
	}
	sum := sha256.Sum256(data)
	name := hex.EncodeToString(sum[:16]) + strings.ToLower(filepath.Ext(filename))

	u.mu.Lock()
	defer u.mu.Unlock()
	u.files[name] = data
	return u.baseURL + "/" + name, nil
}

// File returns the stored bytes for a previously returned URL.
func (u *MemoryUploader) File(url string) ([]byte, bool) {
	name := url[strings.LastIndexByte(url, '/')+1:]
	u.mu.Lock()
	defer u.mu.Unlock()
	data, ok := u.files[name]
	return data, ok
}
