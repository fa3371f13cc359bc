package ports

import "context"

// KVStore is durable string-keyed, string-valued storage. Structured values
// are serialized by the caller. Implementations must make each write fully
// succeed or fully fail; multi-key consistency is not required.
type KVStore interface {
	// GetItem returns the value for key and whether it was present.
	GetItem(ctx context.Context, key string) (string, bool, error)

	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
}
