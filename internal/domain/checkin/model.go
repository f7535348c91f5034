package checkin

import (
	"strings"
	"time"
)

const (
	// ActiveWindow bounds which check-ins count toward occupancy, regardless of
	// whether the record was ever closed.
	ActiveWindow = 8 * time.Hour

	DefaultDuration = "2"
	AnonymousPlayer = "Anonymous"
)

// Durations are the estimated stay choices offered at check-in, in hours.
var Durations = []string{"1", "2", "3", "4+"}

// CheckIn is a remote-owned presence record.
type CheckIn struct {
	ID           string     `json:"id"`
	CourtID      int        `json:"court_id"`
	PlayerName   string     `json:"player_name"`
	Duration     string     `json:"duration"`
	CheckedInAt  time.Time  `json:"checked_in_at"`
	IsActive     bool       `json:"is_active"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`
}

// CountsAt reports whether the record contributes to occupancy at now.
func (c CheckIn) CountsAt(now time.Time, window time.Duration) bool {
	if !c.IsActive {
		return false
	}
	return !c.CheckedInAt.Before(now.Add(-window))
}

type NewCheckIn struct {
	CourtID     int
	PlayerName  string
	Duration    string
	CheckedInAt time.Time
}

func NormalizeDuration(v string) string {
	v = strings.TrimSpace(v)
	for _, d := range Durations {
		if v == d {
			return v
		}
	}
	return DefaultDuration
}

// ResolvePlayerName picks the first non-blank name, falling back to AnonymousPlayer.
func ResolvePlayerName(names ...string) string {
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			return trimmed
		}
	}
	return AnonymousPlayer
}
