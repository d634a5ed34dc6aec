package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	cfg "github.com/templui/photoshare/internal/config"
)

var (
	ErrNotFound    = errors.New("blob not found")
	ErrExists      = errors.New("blob already exists")
	ErrInvalidName = errors.New("invalid blob name")
)

// Storage keeps media blobs in one flat namespace keyed by storage name.
type Storage interface {
	// Put stores r under name, replacing any existing blob.
	Put(ctx context.Context, name string, r io.Reader) error

	// Create stores r under name and fails with ErrExists if the name is taken.
	Create(ctx context.Context, name string, r io.Reader) error

	// Open returns the blob for reading, or ErrNotFound.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes the blob. A missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// Exists reports whether a blob is stored under name.
	Exists(ctx context.Context, name string) (bool, error)
}

// New picks the storage driver from app config.
func New(ctx context.Context, c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case "", "local":
		slog.Info("initializing local storage", "dir", c.UploadDir)
		return NewLocalStorage(c.UploadDir)
	case "s3":
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(ctx, S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}

// ValidateName rejects anything that is not a single path element.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || containsSeparator(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func containsSeparator(name string) bool {
	for _, r := range name {
		if r == '/' || r == '\\' || r == 0 {
			return true
		}
	}
	return false
}
