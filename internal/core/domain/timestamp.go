package domain

import "time"

// MillisPerDay is the number of milliseconds in one scheduling day.
const MillisPerDay = 24 * 60 * 60 * 1000

// Timestamp is a point in time in Unix milliseconds.
// All persisted and exported times use this representation.
type Timestamp int64

// TimestampOf converts a time.Time to a Timestamp.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

// Time converts the timestamp back to a time.Time in UTC.
func (ts Timestamp) Time() time.Time {
	return time.UnixMilli(int64(ts)).UTC()
}

// AddDays returns the timestamp shifted forward by the given number of days.
func (ts Timestamp) AddDays(days int) Timestamp {
	return ts + Timestamp(days)*MillisPerDay
}
