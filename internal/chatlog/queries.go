package chatlog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DayCount is one day's line count, labeled "DD/MM".
type DayCount struct {
	Label string `json:"date"`
	Count int    `json:"count"`
}

// UserCount is one user's line count within a room.
type UserCount struct {
	User  string `json:"user"`
	Count int    `json:"count"`
}

// HourCount is one hour's line count within a room. The label keeps the
// stored zero-padded form.
type HourCount struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

// ActivityOptions narrows UserActivity results.
type ActivityOptions struct {
	// TodayOnly keeps only entries from the current UTC day and month.
	TodayOnly bool
	// Hour keeps only entries logged during the given UTC hour. It is
	// zero-padded before comparison, so "9" and "09" are equivalent. Empty
	// means no hour filter.
	Hour string
}

// LineCount returns per-day line counts for one user in one room, in the
// order days are first encountered in the stored hash. Stale keys found along
// the way are pruned.
func (c *ChatLogger) LineCount(ctx context.Context, room, userid string) ([]DayCount, error) {
	if err := c.WaitForSync(ctx); err != nil {
		return nil, err
	}

	key := room + ":" + userid
	fields, err := c.logs.HashFields(key)
	if err != nil {
		return nil, err
	}

	today := c.now().UTC()
	var out []DayCount
	index := make(map[string]int)
	var stale []string
	for _, f := range fields {
		day, month, _ := ParseTimeKey(f)
		if IsStale(day, month, today.Day(), int(today.Month())) {
			stale = append(stale, f)
			continue
		}
		parts := strings.SplitN(f, ":", 3)
		label := parts[0] + "/" + parts[1]
		if i, ok := index[label]; ok {
			out[i].Count++
		} else {
			index[label] = len(out)
			out = append(out, DayCount{Label: label, Count: 1})
		}
	}
	c.pruneStale(key, stale)
	return out, nil
}

// UserActivity returns per-user line counts for a room, sorted by count
// descending. The sort is stable: users with equal counts keep their
// enumeration order. Stale keys are pruned per user as encountered.
func (c *ChatLogger) UserActivity(ctx context.Context, room string, opts ActivityOptions) ([]UserCount, error) {
	if err := c.WaitForSync(ctx); err != nil {
		return nil, err
	}

	keys, err := c.logs.ListKeys(room + ":*")
	if err != nil {
		return nil, err
	}

	today := c.now().UTC()
	todayDay := fmt.Sprintf("%02d", today.Day())
	todayMonth := fmt.Sprintf("%02d", int(today.Month()))
	hourFilter := padHour(opts.Hour)

	out := make([]UserCount, 0, len(keys))
	for _, composite := range keys {
		_, user, _ := strings.Cut(composite, ":")

		fields, err := c.logs.HashFields(composite)
		if err != nil {
			return nil, err
		}

		var stale []string
		count := 0
		for _, f := range fields {
			day, month, _ := ParseTimeKey(f)
			if IsStale(day, month, today.Day(), int(today.Month())) {
				stale = append(stale, f)
				continue
			}
			parts := strings.SplitN(f, ":", 4)
			if opts.TodayOnly && (parts[0] != todayDay || len(parts) < 2 || parts[1] != todayMonth) {
				continue
			}
			if hourFilter != "" && (len(parts) < 3 || parts[2] != hourFilter) {
				continue
			}
			count++
		}
		out = append(out, UserCount{User: user, Count: count})
		c.pruneStale(composite, stale)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

// RoomActivity returns a room's hour-of-day histogram across all users,
// sorted ascending by numeric hour. Stale keys are pruned per user as
// encountered.
func (c *ChatLogger) RoomActivity(ctx context.Context, room string) ([]HourCount, error) {
	if err := c.WaitForSync(ctx); err != nil {
		return nil, err
	}

	keys, err := c.logs.ListKeys(room + ":*")
	if err != nil {
		return nil, err
	}

	today := c.now().UTC()
	var out []HourCount
	index := make(map[string]int)
	for _, composite := range keys {
		fields, err := c.logs.HashFields(composite)
		if err != nil {
			return nil, err
		}

		var stale []string
		for _, f := range fields {
			day, month, _ := ParseTimeKey(f)
			if IsStale(day, month, today.Day(), int(today.Month())) {
				stale = append(stale, f)
				continue
			}
			parts := strings.SplitN(f, ":", 4)
			if len(parts) < 3 {
				continue
			}
			hour := parts[2]
			if i, ok := index[hour]; ok {
				out[i].Count++
			} else {
				index[hour] = len(out)
				out = append(out, HourCount{Hour: hour, Count: 1})
			}
		}
		c.pruneStale(composite, stale)
	}

	sort.SliceStable(out, func(i, j int) bool {
		hi, _ := strconv.Atoi(out[i].Hour)
		hj, _ := strconv.Atoi(out[j].Hour)
		return hi < hj
	})
	return out, nil
}

// UniqueUsers counts composite keys starting with the room name. The match
// is a bare prefix, not "room:", so rooms sharing a prefix count together;
// callers relying on the historical behavior get exactly that.
func (c *ChatLogger) UniqueUsers(ctx context.Context, room string) (int, error) {
	if err := c.WaitForSync(ctx); err != nil {
		return 0, err
	}
	keys, err := c.logs.ListKeys(room + "*")
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// LastSeen returns the user's last activity in epoch-ms, ok=false when the
// user was never seen outside private rooms.
func (c *ChatLogger) LastSeen(ctx context.Context, userid string) (int64, bool, error) {
	if err := c.WaitForSync(ctx); err != nil {
		return 0, false, err
	}
	return c.seen.Get(userid)
}

// padHour normalizes an hour filter to the stored two-digit form. Values
// that do not parse as integers pass through unchanged.
func padHour(hour string) string {
	if hour == "" {
		return ""
	}
	if n, err := strconv.Atoi(hour); err == nil {
		return fmt.Sprintf("%02d", n)
	}
	return hour
}
