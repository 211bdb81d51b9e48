package blobstore

import "context"

// Store is a key-value blob store holding serialized collections. It is the
// only component that owns the serialized representation; everything above
// it works on transient in-memory copies.
type Store interface {
	// Load returns the blob for key. ok is false when the key is absent.
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Save fully overwrites any prior content under key.
	Save(ctx context.Context, key string, data []byte) error
	// SaveIfAbsent writes data only when key does not exist yet, so repeated
	// process starts seed at most once. Returns true when it wrote.
	SaveIfAbsent(ctx context.Context, key string, data []byte) (bool, error)
}
