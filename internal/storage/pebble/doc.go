// Package pebblestore wraps a Pebble database with the durability policy and
// the small helper surface the rest of the codebase needs: point reads and
// writes, atomic batches, and prefix iteration.
//
// The wrapper owns the fsync decision so callers never pass pebble
// WriteOptions around. FsyncModeAlways syncs the WAL on every commit,
// FsyncModeInterval enables group commit within a configured window, and
// FsyncModeNever leaves syncing to Pebble's own policies.
package pebblestore
