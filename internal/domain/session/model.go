package session

import (
	"fmt"
	"time"
)

// Durable storage keys. They are shared with earlier client builds, keep them stable.
const (
	KeyPlayerName  = "cc_playerName"
	KeyCourtID     = "cc_checkedIn"
	KeyCheckInTime = "cc_checkInTime"
	KeyRecordID    = "cc_checkInRecordId"
)

// KV is a synchronous string key-value store that survives restarts.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Session is who uses this client and where they are checked in.
// A nil Name means the user never went through onboarding; an empty Name is a
// deliberate skip.
type Session struct {
	Name        *string
	CourtID     int
	CheckedInAt *time.Time
	RecordID    string
}

func (s Session) NeedsOnboarding() bool {
	return s.Name == nil
}

func (s Session) CheckedIn() bool {
	return s.CourtID > 0
}

func (s Session) DisplayName() string {
	if s.Name == nil {
		return ""
	}
	return *s.Name
}

// Clone returns a copy that shares no pointers with s.
func (s Session) Clone() Session {
	out := s
	if s.Name != nil {
		name := *s.Name
		out.Name = &name
	}
	if s.CheckedInAt != nil {
		at := *s.CheckedInAt
		out.CheckedInAt = &at
	}
	return out
}

// Elapsed is how long the user has been checked in, zero when not checked in.
func (s Session) Elapsed(now time.Time) time.Duration {
	if s.CheckedInAt == nil {
		return 0
	}
	if d := now.Sub(*s.CheckedInAt); d > 0 {
		return d
	}
	return 0
}

// FormatElapsed renders "45m" below an hour and "2h 5m" above.
func FormatElapsed(d time.Duration) string {
	mins := int((d + 30*time.Second) / time.Minute)
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %dm", mins/60, mins%60)
}
