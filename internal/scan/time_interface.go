package scan

import "time"

// TimeProvider provides the current time for dependency injection.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider implements TimeProvider using the wall clock.
type RealTimeProvider struct{}

// Now returns the current time.
func (r *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// FixedTimeProvider always returns the same instant. Useful in tests.
type FixedTimeProvider struct {
	Time time.Time
}

// Now returns the fixed time.
func (f *FixedTimeProvider) Now() time.Time {
	return f.Time
}
