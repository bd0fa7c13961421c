// Package upload validates and stores image attachments for equipment
// records.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxFiles is the maximum number of images per equipment item.
	MaxFiles = 3
	// MaxFileSize is the maximum size of a single image in bytes.
	MaxFileSize = 5 << 20 // 5MB
)

var (
	ErrTooManyFiles    = errors.New("too many files: at most 3 images are allowed")
	ErrFileTooLarge    = errors.New("file too large: images must be 5MB or smaller")
	ErrUnsupportedType = errors.New("unsupported file type: only JPEG and PNG images are allowed")
)

// allowedTypes mirrors the declared Content-Type allowlist for uploads.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// Store saves validated image files under an equipment-scoped directory
// inside the upload root and hands back paths relative to that root, suitable
// both for persistence and for serving under /uploads/.
type Store struct {
	baseDir string
}

// NewStore creates a Store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Validate checks the count, declared content type and size of the uploaded
// files without touching the filesystem. It runs before any database write so
// a rejected upload never leaves a partial record behind.
func Validate(files []*multipart.FileHeader) error {
	if len(files) > MaxFiles {
		return ErrTooManyFiles
	}
	for _, fh := range files {
		if !allowedTypes[fh.Header.Get("Content-Type")] {
			return ErrUnsupportedType
		}
		if fh.Size > MaxFileSize {
			return ErrFileTooLarge
		}
	}
	return nil
}

// Save stores a single uploaded file under <baseDir>/equipment/ with a
// collision-resistant name preserving the original extension, and returns the
// path relative to the upload root.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	dir := filepath.Join(s.baseDir, "equipment")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload dir: %w", err)
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), filepath.Ext(fh.Filename))

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("writing file: %w", err)
	}

	// Forward slashes regardless of platform; the path doubles as a URL
	// segment under /uploads/.
	return path.Join("equipment", name), nil
}

// SaveAll stores every file and returns their relative paths in order.
func (s *Store) SaveAll(files []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, fh := range files {
		p, err := s.Save(fh)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
