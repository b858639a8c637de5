package chatlog

import (
	"context"
	"errors"
	"testing"
	"time"
)

// newTestChatLogger wires a ChatLogger to in-memory stores with "today"
// pinned to 2026-06-15 UTC.
func newTestChatLogger(t *testing.T, host Host) (*ChatLogger, *memLogStore, *memSeenStore) {
	t.Helper()
	logs := newMemLogStore()
	seen := newMemSeenStore()
	if host == nil {
		host = NewStaticHost(false, nil)
	}
	c := New(Options{Logs: logs, Seen: seen, Host: host})
	c.now = func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }
	return c, logs, seen
}

const tsJune15 = "1718451045" // 2024-06-15 11:30:45 UTC

func TestLogVisibleOnlyAfterFlush(t *testing.T) {
	c, logs, _ := newTestChatLogger(t, nil)
	ctx := context.Background()

	c.Log(tsJune15, "lobby", "alice", "hello")

	days, err := c.LineCount(ctx, "lobby", "alice")
	if err != nil {
		t.Fatalf("linecount: %v", err)
	}
	if len(days) != 0 {
		t.Fatalf("buffered line visible before flush: %v", days)
	}

	if err := c.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	days, err = c.LineCount(ctx, "lobby", "alice")
	if err != nil {
		t.Fatalf("linecount: %v", err)
	}
	if len(days) != 1 || days[0].Label != "15/06" || days[0].Count != 1 {
		t.Fatalf("unexpected counts after flush: %v", days)
	}

	if logs.commits != 1 {
		t.Fatalf("want exactly one commit, got %d", logs.commits)
	}
}

func TestFlushEmptyBufferSkipsCommit(t *testing.T) {
	c, logs, _ := newTestChatLogger(t, nil)
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if logs.commits != 0 {
		t.Fatalf("empty flush should not open a transaction")
	}
}

func TestFlushBatchesPerCompositeKey(t *testing.T) {
	c, logs, _ := newTestChatLogger(t, nil)
	ctx := context.Background()

	c.Log(tsJune15, "lobby", "alice", "one")
	c.Log(tsJune15, "lobby", "alice", "two")
	c.Log(tsJune15, "lobby", "bob", "three")
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if logs.commits != 1 {
		t.Fatalf("all keys should commit in one transaction, got %d", logs.commits)
	}
	fields, _ := logs.HashFields("lobby:bob")
	if len(fields) != 1 {
		t.Fatalf("bob fields: %v", fields)
	}
}

func TestLogDisabledTouchesNothing(t *testing.T) {
	c, logs, seen := newTestChatLogger(t, NewStaticHost(true, nil))
	ctx := context.Background()

	c.Log(tsJune15, "lobby", "alice", "hello")
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if logs.commits != 0 {
		t.Fatalf("disabled logging still committed")
	}
	if _, ok, _ := seen.Get("alice"); ok {
		t.Fatalf("disabled logging still updated seen record")
	}
	days, _ := c.LineCount(ctx, "lobby", "alice")
	if len(days) != 0 {
		t.Fatalf("expected empty mapping, got %v", days)
	}
}

func TestLogDropsMalformedInput(t *testing.T) {
	c, _, seen := newTestChatLogger(t, nil)

	c.Log("not-a-number", "lobby", "alice", "hello")
	c.Log(tsJune15, "", "alice", "hello")
	c.Log(tsJune15, "lobby", "", "hello")

	c.mu.Lock()
	pending := c.buf.pending()
	c.mu.Unlock()
	if pending != 0 {
		t.Fatalf("malformed input reached the buffer: %d keys", pending)
	}
	if _, ok, _ := seen.Get("alice"); ok {
		t.Fatalf("malformed input updated seen record")
	}
}

func TestPrivateRoomSkipsSeen(t *testing.T) {
	c, _, seen := newTestChatLogger(t, NewStaticHost(false, []string{"staff"}))
	ctx := context.Background()

	c.Log(tsJune15, "staff", "alice", "secret")
	if _, ok, _ := seen.Get("alice"); ok {
		t.Fatalf("private room updated seen record")
	}

	c.Log(tsJune15, "lobby", "alice", "hello")
	ms, ok, err := c.LastSeen(ctx, "alice")
	if err != nil || !ok {
		t.Fatalf("last seen: %v %v", ok, err)
	}
	if ms != 1718451045000 {
		t.Fatalf("seen should be epoch-ms, got %d", ms)
	}
}

func TestWaitForSyncBlocksDuringFlush(t *testing.T) {
	c, logs, _ := newTestChatLogger(t, nil)
	ctx := context.Background()

	c.Log(tsJune15, "lobby", "alice", "hello")

	gate := make(chan struct{})
	logs.commitGate = gate

	flushDone := make(chan error, 1)
	go func() { flushDone <- c.Flush(ctx) }()

	// Wait until the flush is holding the commit open.
	deadline := time.After(time.Second)
	for {
		c.mu.Lock()
		syncing := c.syncing
		c.mu.Unlock()
		if syncing {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("flush never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	waitDone := make(chan struct{})
	go func() {
		if err := c.WaitForSync(ctx); err != nil {
			t.Errorf("wait: %v", err)
		}
		close(waitDone)
	}()

	select {
	case <-waitDone:
		t.Fatalf("waiter released while flush in progress")
	case <-time.After(50 * time.Millisecond):
	}

	close(gate)
	if err := <-flushDone; err != nil {
		t.Fatalf("flush: %v", err)
	}
	select {
	case <-waitDone:
	case <-time.After(time.Second):
		t.Fatalf("waiter not released after flush")
	}
}

func TestFailedCommitParksWaitersUntilNextCycle(t *testing.T) {
	c, logs, _ := newTestChatLogger(t, nil)
	ctx := context.Background()

	c.Log(tsJune15, "lobby", "alice", "lost")
	logs.commitErr = errCommitRefused
	if err := c.Flush(ctx); !errors.Is(err, errCommitRefused) {
		t.Fatalf("expected commit error, got %v", err)
	}

	// The failed cycle leaves the barrier up.
	shortCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := c.WaitForSync(shortCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected parked waiter, got %v", err)
	}

	// That cycle's data is gone for good; the next cycle releases waiters.
	logs.commitErr = nil
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := c.WaitForSync(ctx); err != nil {
		t.Fatalf("barrier should be down: %v", err)
	}
	fields, _ := logs.HashFields("lobby:alice")
	if len(fields) != 0 {
		t.Fatalf("failed cycle's data resurfaced: %v", fields)
	}
}

func TestRoomRegistry(t *testing.T) {
	c, logs, _ := newTestChatLogger(t, nil)

	logs.set("dev:dan", "15:06:09:00:00", "m")
	logs.set("lobby:alice", "15:06:09:00:00", "m")
	if err := c.loadRooms(); err != nil {
		t.Fatalf("load rooms: %v", err)
	}

	c.Log(tsJune15, "tournaments", "bob", "gg")

	rooms := c.Rooms()
	want := []string{"dev", "lobby", "tournaments"}
	if len(rooms) != len(want) {
		t.Fatalf("rooms: %v", rooms)
	}
	for i := range want {
		if rooms[i] != want[i] {
			t.Fatalf("rooms: got %v want %v", rooms, want)
		}
	}
}

func TestStartStopFlushesBuffer(t *testing.T) {
	c, logs, _ := newTestChatLogger(t, nil)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	c.Log(tsJune15, "lobby", "alice", "bye")
	c.Stop()

	fields, _ := logs.HashFields("lobby:alice")
	if len(fields) != 1 {
		t.Fatalf("stop should flush the remaining buffer: %v", fields)
	}
	// Stop twice is safe.
	c.Stop()
}
