// Package blob defines storage for raw file bytes under opaque references
// chosen by the upload path.
package blob

import "context"

// Store persists and retrieves raw bytes by opaque key. Writes overwrite
// existing keys, which keeps thumbnail regeneration idempotent.
type Store interface {
	Write(ctx context.Context, key string, data []byte) error
	// Read returns the bytes stored under key, or common.ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}
