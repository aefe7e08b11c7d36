package util

import "time"

// UnixMilli converts a millisecond epoch into a UTC time.Time.
func UnixMilli(ms uint64) time.Time {
	return time.UnixMilli(int64(ms)).UTC()
}

// Millis converts t into a millisecond epoch. Times before the epoch map to 0.
func Millis(t time.Time) uint64 {
	ms := t.UnixMilli()
	if ms < 0 {
		return 0
	}
	return uint64(ms)
}
