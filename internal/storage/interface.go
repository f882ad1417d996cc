package storage

import (
	"context"
	"io"
)

// StorageInterface abstracts where product images live. The local
// implementation keeps files on disk and serves them through the API;
// a cloud backend would return object-store URLs instead.
type StorageInterface interface {
	// PublicURL returns the URL under which a stored key is served.
	PublicURL(key string) string

	// FileExists checks if a file exists and returns its size
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	// DeleteFile removes a file from storage
	DeleteFile(ctx context.Context, key string) error

	// SaveFile saves an uploaded file under key
	SaveFile(key string, reader io.Reader) error

	// ReadFile opens a stored file for reading
	ReadFile(key string) (io.ReadCloser, error)
}
