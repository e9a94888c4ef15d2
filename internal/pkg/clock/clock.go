package clock

import "time"

// Clock supplies the current time. Activity windows, the grace retry and
// open-ended charge durations all depend on "now", so it is injected
// instead of read from time.Now directly; tests pin it to a fixed instant.
type Clock func() time.Time

// System returns the wall clock.
func System() Clock {
	return time.Now
}

// Fixed returns a clock frozen at t.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}
