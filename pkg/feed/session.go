package feed

import (
	"context"
	"time"
)

// ForexSession is the FX weekly session: Sunday 22:00 UTC to Friday 22:00 UTC
type ForexSession struct {
	// Now overrides the clock (tests)
	Now func() time.Time
}

const sessionHourUTC = 22

// IsOpenAt reports whether the FX market is open at t
func (s ForexSession) IsOpenAt(t time.Time) bool {
	t = t.UTC()
	switch t.Weekday() {
	case time.Saturday:
		return false
	case time.Sunday:
		return t.Hour() >= sessionHourUTC
	case time.Friday:
		return t.Hour() < sessionHourUTC
	default:
		return true
	}
}

// IsMarketOpen implements the session check for every symbol
func (s ForexSession) IsMarketOpen(_ context.Context, _ string) (bool, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return s.IsOpenAt(now()), nil
}
