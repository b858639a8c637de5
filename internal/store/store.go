package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"

	"github.com/cockroachdb/pebble"

	"github.com/AnubhavShen14/Kid-A/internal/chatlog"
	pebblestore "github.com/AnubhavShen14/Kid-A/internal/storage/pebble"
)

// LogStore implements chatlog.LogStore on a Pebble database.
type LogStore struct {
	db *pebblestore.DB
}

// NewLogStore wraps db as the hash-structured activity store.
func NewLogStore(db *pebblestore.DB) *LogStore {
	return &LogStore{db: db}
}

// ListKeys enumerates distinct composite keys matching the glob pattern.
func (s *LogStore) ListKeys(pattern string) ([]string, error) {
	upper, _ := pebblestore.PrefixUpperBound(logPrefix)
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: logPrefix, UpperBound: upper})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []string
	last := ""
	for ok := iter.First(); ok; ok = iter.Next() {
		rest := iter.Key()[len(logPrefix):]
		i := bytes.Index(rest, fieldSeg)
		if i < 0 {
			continue
		}
		composite := string(rest[:i])
		// Fields of one composite are adjacent, so consecutive dedupe is
		// enough.
		if composite == last {
			continue
		}
		last = composite
		match, err := path.Match(pattern, composite)
		if err != nil {
			return nil, fmt.Errorf("store: bad key pattern %q: %w", pattern, err)
		}
		if match {
			out = append(out, composite)
		}
	}
	return out, iter.Error()
}

// HashFields lists the field names stored under a composite key.
func (s *LogStore) HashFields(key string) ([]string, error) {
	prefix := logFieldPrefix(key)
	upper, _ := pebblestore.PrefixUpperBound(prefix)
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upper})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []string
	for ok := iter.First(); ok; ok = iter.Next() {
		out = append(out, string(iter.Key()[len(prefix):]))
	}
	return out, iter.Error()
}

// HashField reads one field's message text.
func (s *LogStore) HashField(key, field string) (string, bool, error) {
	val, err := s.db.Get(logFieldKey(key, field))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(val), true, nil
}

// HashDelete removes the given fields from a composite key's hash in one
// batch.
func (s *LogStore) HashDelete(key string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	b := s.db.NewBatch()
	defer b.Close()
	for _, f := range fields {
		if err := b.Delete(logFieldKey(key, f), nil); err != nil {
			return err
		}
	}
	return s.db.CommitBatch(context.Background(), b)
}

// Begin opens a write transaction backed by a Pebble batch.
func (s *LogStore) Begin() chatlog.LogTx {
	return &logTx{db: s.db, batch: s.db.NewBatch()}
}

type logTx struct {
	db    *pebblestore.DB
	batch *pebble.Batch
	err   error
}

// HashSetMany queues the field/value pairs for the composite key.
func (t *logTx) HashSetMany(key string, pairs []chatlog.FieldValue) {
	if t.err != nil {
		return
	}
	for _, p := range pairs {
		if err := t.batch.Set(logFieldKey(key, p.Field), []byte(p.Value), nil); err != nil {
			t.err = err
			return
		}
	}
}

// Commit applies every queued write atomically.
func (t *logTx) Commit(ctx context.Context) error {
	defer t.batch.Close()
	if t.err != nil {
		return t.err
	}
	return t.db.CommitBatch(ctx, t.batch)
}

// SeenStore implements chatlog.SeenStore on the same Pebble database.
type SeenStore struct {
	db *pebblestore.DB
}

// NewSeenStore wraps db as the last-seen store.
func NewSeenStore(db *pebblestore.DB) *SeenStore {
	return &SeenStore{db: db}
}

// Get returns the last-seen epoch-ms for a user.
func (s *SeenStore) Get(userid string) (int64, bool, error) {
	val, err := s.db.Get(seenKey(userid))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	ms, err := strconv.ParseInt(string(val), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("store: corrupt seen record for %q: %w", userid, err)
	}
	return ms, true, nil
}

// Set overwrites the user's last-seen epoch-ms.
func (s *SeenStore) Set(userid string, ms int64) error {
	return s.db.Set(seenKey(userid), []byte(strconv.FormatInt(ms, 10)))
}
