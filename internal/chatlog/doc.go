// Package chatlog records per-user chat activity in rooms and answers
// analytical queries over it, keeping only the current UTC day's data.
//
// # Overview
//
// Log calls are cheap: they append to an in-memory write buffer and never
// touch storage. A flush loop periodically swaps the buffer out and commits
// the captured entries to the log store as one transaction, with one
// hash-set per room:user composite key. Queries first wait for any in-flight
// flush, then read from the store, pruning stale time-keys as a side effect.
// A full sweep over the store runs at startup and once a day.
//
// API surface (internal)
//
//	c := chatlog.New(chatlog.Options{Logs: logs, Seen: seen, Host: host})
//	_ = c.Start(ctx)          // room scan, startup sweep, flush + sweep loops
//	c.Log("1718451045", "lobby", "alice", "hello")
//	days, _ := c.LineCount(ctx, "lobby", "alice")
//	rows, _ := c.UserActivity(ctx, "lobby", chatlog.ActivityOptions{TodayOnly: true})
//	hist, _ := c.RoomActivity(ctx, "lobby")
//	n, _ := c.UniqueUsers(ctx, "lobby")
//	ms, ok, _ := c.LastSeen(ctx, "alice")
//	c.Stop()
//
// # Storage layout
//
// Each message is a hash field under its composite key: the field name is a
// DD:MM:HH:mm:ss time-key, the value is the message text. Last-seen records
// are plain userid -> epoch-ms values in a separate store. Both contracts are
// the small interfaces in store.go; internal/store provides the Pebble-backed
// implementation.
package chatlog
