package chatlog

import (
	"context"
	"errors"
	"path"
	"sync"
)

// memLogStore is an in-memory LogStore for tests. Fields keep insertion
// order, composite keys keep first-write order, and commits can be gated or
// failed to exercise the flush path.
type memLogStore struct {
	mu     sync.Mutex
	keys   []string
	hashes map[string]*memHash

	commitErr  error
	commitGate chan struct{}
	commits    int
}

type memHash struct {
	fields []string
	values map[string]string
}

func newMemLogStore() *memLogStore {
	return &memLogStore{hashes: make(map[string]*memHash)}
}

func (s *memLogStore) ListKeys(pattern string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, key := range s.keys {
		ok, err := path.Match(pattern, key)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, key)
		}
	}
	return out, nil
}

func (s *memLogStore) HashFields(key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hashes[key]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), h.fields...), nil
}

func (s *memLogStore) HashDelete(key string, fields ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hashes[key]
	if !ok {
		return nil
	}
	drop := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		drop[f] = struct{}{}
	}
	kept := h.fields[:0]
	for _, f := range h.fields {
		if _, gone := drop[f]; gone {
			delete(h.values, f)
			continue
		}
		kept = append(kept, f)
	}
	h.fields = kept
	return nil
}

func (s *memLogStore) Begin() LogTx {
	return &memTx{store: s}
}

// set writes one field directly, bypassing transactions. Test seeding only.
func (s *memLogStore) set(key, field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(key, field, value)
}

func (s *memLogStore) apply(key, field, value string) {
	h, ok := s.hashes[key]
	if !ok {
		h = &memHash{values: make(map[string]string)}
		s.hashes[key] = h
		s.keys = append(s.keys, key)
	}
	if _, exists := h.values[field]; !exists {
		h.fields = append(h.fields, field)
	}
	h.values[field] = value
}

// snapshot copies the full store state for equality checks.
func (s *memLogStore) snapshot() map[string]map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]map[string]string, len(s.hashes))
	for key, h := range s.hashes {
		m := make(map[string]string, len(h.values))
		for f, v := range h.values {
			m[f] = v
		}
		out[key] = m
	}
	return out
}

type memTx struct {
	store *memStoreRef
	ops   []memOp
}

// memStoreRef aliases memLogStore so the tx type reads naturally.
type memStoreRef = memLogStore

type memOp struct {
	key   string
	pairs []FieldValue
}

func (t *memTx) HashSetMany(key string, pairs []FieldValue) {
	t.ops = append(t.ops, memOp{key: key, pairs: pairs})
}

func (t *memTx) Commit(ctx context.Context) error {
	if gate := t.store.commitGate; gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.store.commitErr != nil {
		return t.store.commitErr
	}
	for _, op := range t.ops {
		for _, p := range op.pairs {
			t.store.apply(op.key, p.Field, p.Value)
		}
	}
	t.store.commits++
	return nil
}

// memSeenStore is an in-memory SeenStore for tests.
type memSeenStore struct {
	mu     sync.Mutex
	m      map[string]int64
	setErr error
}

func newMemSeenStore() *memSeenStore {
	return &memSeenStore{m: make(map[string]int64)}
}

func (s *memSeenStore) Get(userid string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms, ok := s.m[userid]
	return ms, ok, nil
}

func (s *memSeenStore) Set(userid string, ms int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.m[userid] = ms
	return nil
}

var errCommitRefused = errors.New("commit refused")
