package clock

import "time"

// Clock returns the current time. Services hold one so tests can pin time;
// a nil Clock reads the wall clock.
type Clock func() time.Time

// Now returns the current UTC time.
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// Fake is a settable clock for tests.
type Fake struct {
	now time.Time
}

// NewFake returns a Fake starting at t.
func NewFake(t time.Time) *Fake {
	return &Fake{now: t}
}

// Clock exposes the fake as a Clock value.
func (f *Fake) Clock() Clock {
	return func() time.Time { return f.now }
}

// Advance moves the fake forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// Set pins the fake to t.
func (f *Fake) Set(t time.Time) {
	f.now = t
}
