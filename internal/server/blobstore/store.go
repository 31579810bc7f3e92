// Package blobstore keeps file contents outside the metadata store,
// addressed by opaque keys.
package blobstore

import "context"

// Store is the byte-storage abstraction used by the file service and the
// thumbnail pipeline. Read returns an error wrapping common.ErrorNotFound
// for unknown keys. Write overwrites existing content.
type Store interface {
	Write(ctx context.Context, key string, data []byte) error
	Read(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}
