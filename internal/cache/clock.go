package cache

import "time"

// Clock tells the current time. It matches backoff.Clock so the same fake can
// drive both in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}
