package clock

import "time"

// Clock supplies the current instant. Cycle math, the deletion window and the
// retention filter all derive from it, so services take a Clock instead of
// calling time.Now directly.
type Clock interface {
	Now() time.Time
}

// System is the real clock used in production wiring.
type System struct{}

func NewSystem() System {
	return System{}
}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Manual is a settable clock for tests.
type Manual struct {
	Current time.Time
}

func NewManual(t time.Time) *Manual {
	return &Manual{Current: t}
}

func (m *Manual) Now() time.Time {
	return m.Current
}

// Advance moves the manual clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.Current = m.Current.Add(d)
}
