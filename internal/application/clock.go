package application

import "time"

// Clock supplies snapshot timestamps; swapped out in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports time.Now in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
