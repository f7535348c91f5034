package chat

import (
	"strings"
	"time"
)

// HistoryLimit is how many recent messages a chat snapshot loads.
const HistoryLimit = 120

type Mode string

const (
	ModeGlobal Mode = "global"
	ModeCourt  Mode = "court"
)

func ParseMode(v string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(v))) {
	case ModeGlobal:
		return ModeGlobal, true
	case ModeCourt:
		return ModeCourt, true
	default:
		return "", false
	}
}

// Scope selects the chat room a feed follows. CourtID is only meaningful in court mode.
type Scope struct {
	Mode    Mode
	CourtID int
}

func GlobalScope() Scope {
	return Scope{Mode: ModeGlobal}
}

func CourtScope(courtID int) Scope {
	return Scope{Mode: ModeCourt, CourtID: courtID}
}

// Matches reports whether msg belongs to the room described by s.
func (s Scope) Matches(msg Message) bool {
	if msg.Type != s.Mode {
		return false
	}
	if s.Mode == ModeGlobal {
		return true
	}
	return msg.CourtID != nil && *msg.CourtID == s.CourtID
}

type Message struct {
	ID         string    `json:"id"`
	Type       Mode      `json:"chat_type"`
	CourtID    *int      `json:"court_id"`
	CourtName  *string   `json:"court_name"`
	PlayerName string    `json:"player_name"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

type NewMessage struct {
	Type       Mode
	CourtID    *int
	CourtName  *string
	PlayerName string
	Message    string
}
