package chatlog

import (
	"context"

	logpkg "github.com/AnubhavShen14/Kid-A/pkg/log"
)

// Flush swaps the write buffer for a fresh one and commits the captured
// entries as a single transaction, one hash-set per composite key. Appends
// arriving during the commit land in the new buffer and belong to the next
// cycle.
//
// On commit failure the captured entries are dropped, not retried; waiters
// stay parked and the syncing flag stays set until the next successful cycle
// releases them.
func (c *ChatLogger) Flush(ctx context.Context) error {
	c.mu.Lock()
	c.syncing = true
	captured := c.buf
	c.buf = newWriteBuffer()
	c.mu.Unlock()

	if captured.pending() > 0 {
		tx := c.logs.Begin()
		for _, key := range captured.keys {
			tx.HashSetMany(key, captured.pairs(key))
		}
		if err := tx.Commit(ctx); err != nil {
			return err
		}
		c.log.Debug("flush committed", logpkg.Int("keys", captured.pending()))
	}

	c.mu.Lock()
	released := c.waiters
	c.waiters = nil
	c.syncing = false
	c.mu.Unlock()
	for _, ch := range released {
		close(ch)
	}
	return nil
}

// WaitForSync blocks until the in-flight flush cycle, if any, completes.
// The syncing check and waiter registration happen under the same mutex as
// the flush swap, so a waiter can never miss the wakeup for the cycle it
// observed.
func (c *ChatLogger) WaitForSync(ctx context.Context) error {
	c.mu.Lock()
	if !c.syncing {
		c.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	c.waiters = append(c.waiters, ch)
	c.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
