package broadcast

import (
	"slices"
	"time"
)

const (
	ListWindow = 24 * time.Hour

	UnknownCourt         = "Unknown Court"
	DefaultPlayersNeeded = "2"
	DefaultSkillLevel    = "Any level"
	DefaultRunType       = "Full Court 5v5"
)

// PlayersNeededChoices are the headcounts a broadcast can ask for; "6+" is open ended.
var PlayersNeededChoices = []string{"1", "2", "3", "4", "5", "6+"}

var SkillLevels = []string{"Any level", "Beginner", "Casual", "Intermediate", "Competitive", "Elite"}

var RunTypes = []string{"Full Court 5v5", "Half Court 3v3", "1v1", "2v2", "Pickup", "Drills only"}

// Broadcast is a "need players" request. It is never mutated once created.
type Broadcast struct {
	ID            string    `json:"id"`
	PlayerName    string    `json:"player_name"`
	CourtID       *int      `json:"court_id"`
	CourtName     string    `json:"court_name"`
	Message       string    `json:"message"`
	PlayersNeeded string    `json:"players_needed"`
	SkillLevel    string    `json:"skill_level"`
	RunType       string    `json:"run_type"`
	CreatedAt     time.Time `json:"created_at"`
	IsActive      bool      `json:"is_active"`
}

func (b Broadcast) ListedAt(now time.Time, window time.Duration) bool {
	return b.IsActive && !b.CreatedAt.Before(now.Add(-window))
}

func (b Broadcast) ForCourt(courtID int) bool {
	return b.CourtID != nil && *b.CourtID == courtID
}

type NewBroadcast struct {
	PlayerName    string
	CourtID       *int
	CourtName     string
	Message       string
	PlayersNeeded string
	SkillLevel    string
	RunType       string
}

func ValidPlayersNeeded(v string) bool {
	return slices.Contains(PlayersNeededChoices, v)
}

func ValidSkillLevel(v string) bool {
	return slices.Contains(SkillLevels, v)
}

func ValidRunType(v string) bool {
	return slices.Contains(RunTypes, v)
}
