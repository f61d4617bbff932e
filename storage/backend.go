package storage

import "context"

// Backend is the durable key-value capability behind the store: one
// fixed key holding the JSON-serialized array of all URL records. The
// whole-blob Load/Store contract mirrors the browser localStorage the
// service was modeled on; concurrent writers race on the full
// collection (last writer wins).
type Backend interface {
	// Load returns the current blob, or nil if nothing has been stored yet.
	Load(ctx context.Context) ([]byte, error)

	// Store replaces the blob.
	Store(ctx context.Context, data []byte) error

	// Close releases any underlying resources.
	Close() error
}
