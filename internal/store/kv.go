package store

import "context"

// KV is the persistence collaborator: an opaque blob store addressed by key.
// The reminder list lives under a single fixed key as one JSON array.
type KV interface {
	// Get returns the blob for key; found is false when the key is absent.
	Get(ctx context.Context, key string) (blob []byte, found bool, err error)
	// Set writes the blob for key, replacing any previous value.
	Set(ctx context.Context, key string, blob []byte) error
	Close() error
}
