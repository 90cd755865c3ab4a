// Package storage keeps uploaded files (service images, employee photos,
// task and message attachments) in a blob store and hands back the key the
// database row refers to.
package storage

import (
	"context"
	"io"
)

// Store is a flat key-value blob store.
type Store interface {
	// Put writes a new object. Implementations that can detect an existing
	// key return ErrKeyExists instead of overwriting it.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// URL is the public address of an object.
	URL(key string) string
}
