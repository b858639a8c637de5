package chatlog

import (
	"context"

	logpkg "github.com/AnubhavShen14/Kid-A/pkg/log"
)

// IsStale reports whether a time-key dated (day, month) has fallen out of
// the retention window for the given UTC day-of-month and month. A key goes
// stale once its month falls behind the current one; the day comparison is
// part of the historical rule and is kept so the predicate matches stored
// data pruned by earlier versions.
func IsStale(day, month, todayDay, todayMonth int) bool {
	return month < todayMonth && (day < todayDay || month < todayMonth)
}

// SweepAll walks every composite key and deletes all stale time-keys, one
// batched delete per key. It runs at startup and on the daily schedule;
// queries additionally prune inline, so entries the sweep misses between
// runs still disappear on first read.
func (c *ChatLogger) SweepAll(ctx context.Context) error {
	keys, err := c.logs.ListKeys("*")
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		fields, err := c.logs.HashFields(key)
		if err != nil {
			return err
		}
		today := c.now().UTC()
		var stale []string
		for _, f := range fields {
			day, month, _ := ParseTimeKey(f)
			if IsStale(day, month, today.Day(), int(today.Month())) {
				stale = append(stale, f)
			}
		}
		if len(stale) > 0 {
			if err := c.logs.HashDelete(key, stale...); err != nil {
				return err
			}
		}
	}
	return nil
}

// pruneStale deletes the given stale fields for one composite key,
// best-effort: inline pruning is a byproduct of queries, so failures are
// logged and the query result stands.
func (c *ChatLogger) pruneStale(key string, stale []string) {
	if len(stale) == 0 {
		return
	}
	if err := c.logs.HashDelete(key, stale...); err != nil {
		c.log.Warn("inline prune failed", logpkg.Str("key", key), logpkg.Err(err))
	}
}
