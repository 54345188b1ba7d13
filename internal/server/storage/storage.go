// Package storage abstracts where uploaded model payloads live. Two
// backends exist: local disk (download links signed with a JWT and served
// by the API itself) and an S3-compatible object store (presigned GETs).
package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrInvalidKey is returned for keys that escape the storage root.
	ErrInvalidKey = errors.New("invalid storage key")
)

// BlobStore stores opaque payloads under caller-chosen keys and produces
// time-limited download URLs for them.
type BlobStore interface {
	// Save persists data under key, overwriting any previous content.
	Save(ctx context.Context, key string, data []byte) error

	// Open returns a reader over the payload and its size in bytes.
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)

	// SignedGetURL returns a URL from which the payload can be fetched
	// without further authentication until the URL expires.
	SignedGetURL(ctx context.Context, key string) (string, error)
}
