package ports

import "context"

// DocumentStore is the persistence port for benchmark definitions,
// benchmark results, and baseline questions/results. Implementations
// must serialize writers per key; no finer-grained locking is required
// because no two core operations contend on sub-fields of the same
// record concurrently.
//
// Values cross the port as JSON-serializable documents. A corrupted
// stored document is treated by callers as "no data available" rather
// than an error, so dashboards render an empty state instead of
// crashing.
type DocumentStore interface {
	// Get loads the document at collection/key into out (a pointer).
	// Returns ErrKeyNotFound when the key does not exist.
	Get(ctx context.Context, collection, key string, out any) error

	// Put stores the document at collection/key, overwriting any
	// previous value.
	Put(ctx context.Context, collection, key string, value any) error

	// Delete removes the document at collection/key. Deleting a missing
	// key is not an error.
	Delete(ctx context.Context, collection, key string) error

	// ListKeys returns all keys in the collection, in no guaranteed
	// order.
	ListKeys(ctx context.Context, collection string) ([]string, error)

	// AppendToList appends value to the list at collection/key, then
	// evicts oldest entries so at most maxLen remain. maxLen <= 0 means
	// unbounded. The append and eviction are atomic with respect to
	// concurrent appends to the same key.
	AppendToList(ctx context.Context, collection, key string, value any, maxLen int) error

	// GetList loads the full list at collection/key into out (a pointer
	// to a slice), oldest first. A missing key yields an empty list.
	GetList(ctx context.Context, collection, key string, out any) error
}
