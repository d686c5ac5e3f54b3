package types

import "time"

// Clock provides the current time. Services take a Clock instead of calling
// time.Now so tests can pin "now" when exercising month defaults and the
// future-generation horizon.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// NewRealClock returns a Clock backed by the system time in UTC
func NewRealClock() Clock {
	return realClock{}
}
