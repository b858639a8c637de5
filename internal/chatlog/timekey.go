package chatlog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatTimeKey renders the epoch-ms timestamp as the DD:MM:HH:mm:ss hash
// field name. Day, month and hour are UTC; minute and second follow the
// process-local clock. Stored data depends on this exact layout, so the mix
// must not be normalized.
func FormatTimeKey(ms int64) string {
	t := time.UnixMilli(ms)
	u := t.UTC()
	return fmt.Sprintf("%02d:%02d:%02d:%02d:%02d",
		u.Day(), int(u.Month()), u.Hour(), t.Minute(), t.Second())
}

// ParseTimeKey extracts the day, month and hour fields from a time-key.
// Values are not range-checked; malformed segments parse as zero.
func ParseTimeKey(key string) (day, month, hour int) {
	parts := strings.Split(key, ":")
	if len(parts) > 0 {
		day, _ = strconv.Atoi(parts[0])
	}
	if len(parts) > 1 {
		month, _ = strconv.Atoi(parts[1])
	}
	if len(parts) > 2 {
		hour, _ = strconv.Atoi(parts[2])
	}
	return day, month, hour
}
