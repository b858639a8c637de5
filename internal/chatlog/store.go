package chatlog

import "context"

// FieldValue is one hash field assignment carried by a flush transaction.
type FieldValue struct {
	Field string
	Value string
}

// LogStore is the hash-structured store holding per-room-user activity.
// Keys are room:userid composites; fields are time-keys; values are messages.
type LogStore interface {
	// ListKeys enumerates composite keys matching a glob pattern.
	ListKeys(pattern string) ([]string, error)
	// HashFields lists the field names stored under a composite key.
	HashFields(key string) ([]string, error)
	// HashDelete removes the given fields from a composite key's hash.
	HashDelete(key string, fields ...string) error
	// Begin opens a write transaction. Queued writes become visible only
	// after Commit.
	Begin() LogTx
}

// LogTx is a single atomic write transaction against the log store.
type LogTx interface {
	// HashSetMany queues the field/value pairs for the composite key,
	// preserving their order.
	HashSetMany(key string, pairs []FieldValue)
	Commit(ctx context.Context) error
}

// SeenStore is the plain key-value store holding last-seen timestamps.
type SeenStore interface {
	// Get returns the last-seen epoch-ms for a user, with ok=false when the
	// user has never been seen.
	Get(userid string) (int64, bool, error)
	Set(userid string, ms int64) error
}
