package util

import "time"

// Clock abstracts wall-clock reads so API responses can be stamped
// deterministically in tests. The matching engine itself never reads a
// clock — its timestamps are logical sequence numbers.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }
