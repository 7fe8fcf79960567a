package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions carries optional upload parameters. Size should be the
// exact byte count when known, -1 otherwise.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// Storage is an S3-compatible object store. Implementations stream content
// and never touch local disk.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, keys ...string) error
	// PresignGet returns a time-limited download URL for the object.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
