package store

import (
	"context"
	"testing"

	"github.com/AnubhavShen14/Kid-A/internal/chatlog"
	pebblestore "github.com/AnubhavShen14/Kid-A/internal/storage/pebble"
)

func newTestDB(t *testing.T) *pebblestore.DB {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func mustCommit(t *testing.T, logs *LogStore, key string, pairs ...chatlog.FieldValue) {
	t.Helper()
	tx := logs.Begin()
	tx.HashSetMany(key, pairs)
	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestHashSetManyRoundTrip(t *testing.T) {
	logs := NewLogStore(newTestDB(t))

	mustCommit(t, logs, "lobby:alice",
		chatlog.FieldValue{Field: "15:06:09:30:00", Value: "hello"},
		chatlog.FieldValue{Field: "15:06:10:00:00", Value: "again"},
	)

	fields, err := logs.HashFields("lobby:alice")
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("want 2 fields, got %v", fields)
	}

	msg, ok, err := logs.HashField("lobby:alice", "15:06:09:30:00")
	if err != nil || !ok || msg != "hello" {
		t.Fatalf("field read: %q %v %v", msg, ok, err)
	}
	if _, ok, _ := logs.HashField("lobby:alice", "16:06:00:00:00"); ok {
		t.Fatalf("unexpected field hit")
	}
}

func TestTxNotVisibleBeforeCommit(t *testing.T) {
	logs := NewLogStore(newTestDB(t))

	tx := logs.Begin()
	tx.HashSetMany("lobby:alice", []chatlog.FieldValue{{Field: "15:06:09:30:00", Value: "x"}})

	fields, err := logs.HashFields("lobby:alice")
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	if len(fields) != 0 {
		t.Fatalf("uncommitted write visible: %v", fields)
	}
	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit: %v", err)
	}
	fields, _ = logs.HashFields("lobby:alice")
	if len(fields) != 1 {
		t.Fatalf("committed write missing: %v", fields)
	}
}

func TestListKeysPatterns(t *testing.T) {
	logs := NewLogStore(newTestDB(t))

	for _, key := range []string{"lobby:alice", "lobby:bob", "lobbyfloor:carol", "dev:dan"} {
		mustCommit(t, logs, key, chatlog.FieldValue{Field: "15:06:09:30:00", Value: "m"})
	}

	cases := []struct {
		pattern string
		want    int
	}{
		{"*", 4},
		{"lobby:*", 2},
		{"lobby*", 3},
		{"dev:*", 1},
		{"missing:*", 0},
	}
	for _, tc := range cases {
		keys, err := logs.ListKeys(tc.pattern)
		if err != nil {
			t.Fatalf("list %q: %v", tc.pattern, err)
		}
		if len(keys) != tc.want {
			t.Fatalf("pattern %q: want %d keys, got %v", tc.pattern, tc.want, keys)
		}
	}
}

func TestHashDelete(t *testing.T) {
	logs := NewLogStore(newTestDB(t))

	mustCommit(t, logs, "lobby:alice",
		chatlog.FieldValue{Field: "10:05:09:00:00", Value: "old"},
		chatlog.FieldValue{Field: "15:06:09:00:00", Value: "new"},
	)
	if err := logs.HashDelete("lobby:alice", "10:05:09:00:00"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	fields, _ := logs.HashFields("lobby:alice")
	if len(fields) != 1 || fields[0] != "15:06:09:00:00" {
		t.Fatalf("unexpected fields after delete: %v", fields)
	}
	// Deleting nothing is a no-op.
	if err := logs.HashDelete("lobby:alice"); err != nil {
		t.Fatalf("empty delete: %v", err)
	}
}

func TestSeenStore(t *testing.T) {
	seen := NewSeenStore(newTestDB(t))

	if _, ok, err := seen.Get("alice"); err != nil || ok {
		t.Fatalf("expected absent record: ok=%v err=%v", ok, err)
	}
	if err := seen.Set("alice", 1718451045000); err != nil {
		t.Fatalf("set: %v", err)
	}
	ms, ok, err := seen.Get("alice")
	if err != nil || !ok || ms != 1718451045000 {
		t.Fatalf("get: %d %v %v", ms, ok, err)
	}
}
