package reporter

import "time"

// Session tracks the bridge's per-run state: the start timestamp of the most
// recently reported bar. The timestamp is monotonically non-decreasing and
// advances when a bar is reported, whether or not the report reaches the
// remote controller.
type Session struct {
	lastBarTime time.Time
}

// NewSession creates a session seeded with the given bar timestamp. Seeding
// with the terminal's current bar start prevents re-reporting a bar that was
// already complete when the bridge started.
func NewSession(lastBarTime time.Time) *Session {
	return &Session{lastBarTime: lastBarTime}
}

// LastBarTime returns the start timestamp of the last reported bar.
func (s *Session) LastBarTime() time.Time {
	return s.lastBarTime
}

// AdvanceBar moves the session forward to the given bar start. It reports
// whether the bar is new; an equal or older timestamp leaves the session
// unchanged.
func (s *Session) AdvanceBar(startTime time.Time) bool {
	if !startTime.After(s.lastBarTime) {
		return false
	}

	s.lastBarTime = startTime

	return true
}
