package breaker

import "time"

// Clock supplies the current time. Inject a fake via WithClock to drive the
// open timeout deterministically in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}
