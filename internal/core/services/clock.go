package services

import (
	"time"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

// Clock returns the current time. Services use it for every timestamp they assign.
type Clock func() time.Time

// now returns the current time as a timestamp, falling back to the wall clock.
func (c Clock) now() domain.Timestamp {
	if c == nil {
		return domain.TimestampOf(time.Now())
	}
	return domain.TimestampOf(c())
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
