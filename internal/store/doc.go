// Package store implements the chatlog storage contracts on Pebble.
//
// # Keyspace
//
// Two prefixes, byte-wise sortable so hash fields of one composite key are
// adjacent:
//   - log/{room:userid}/f/{timeKey}  -> message
//   - seen/{userid}                  -> last-seen epoch-ms (decimal)
//
// A hash-field listing is a prefix scan under log/{composite}/f/, key
// enumeration deduplicates adjacent composites from a scan of log/, and a
// chatlog transaction is a Pebble batch committed atomically.
//
// Room and user identifiers must not contain '/', which the key layout uses
// as its separator. The chat host's identifiers are lowercase alphanumerics,
// so this holds in practice.
package store
