package util

import (
	"strconv"
	"time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// PeriodRange resolves a named history period (1M, 6M, 1Y, ALL) into a
// [from, to] range ending at now. Unknown periods resolve like ALL.
func PeriodRange(period string, now time.Time) (time.Time, time.Time) {
	switch period {
	case "1M":
		return now.AddDate(0, -1, 0), now
	case "6M":
		return now.AddDate(0, -6, 0), now
	case "1Y":
		return now.AddDate(-1, 0, 0), now
	default: // ALL
		return time.Unix(0, 0), now
	}
}

// BucketStart floors a unix-seconds timestamp to its interval bucket.
func BucketStart(unixSec int64, interval time.Duration) time.Time {
	sec := int64(interval / time.Second)
	if sec <= 0 {
		sec = 1
	}
	return time.Unix((unixSec/sec)*sec, 0).UTC()
}
