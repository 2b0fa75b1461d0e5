// Package clock abstracts wall-clock reads so frame animation can be driven
// deterministically in tests.
package clock

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

// Now returns time.Now().
func (Real) Now() time.Time { return time.Now() }

// Manual is a Clock that only moves when told to.
type Manual struct {
	t time.Time
}

// NewManual returns a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{t: start}
}

// Now returns the clock's current time.
func (m *Manual) Now() time.Time { return m.t }

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) { m.t = m.t.Add(d) }
