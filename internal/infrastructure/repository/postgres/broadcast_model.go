package postgres

import (
	"database/sql"
	"time"
)

const broadcastColumns = "id, player_name, court_id, court_name, message, players_needed, skill_level, run_type, created_at, is_active"

type broadcastTableModel struct {
	ID            string        `db:"id"`
	PlayerName    string        `db:"player_name"`
	CourtID       sql.NullInt64 `db:"court_id"`
	CourtName     string        `db:"court_name"`
	Message       string        `db:"message"`
	PlayersNeeded string        `db:"players_needed"`
	SkillLevel    string        `db:"skill_level"`
	RunType       string        `db:"run_type"`
	CreatedAt     time.Time     `db:"created_at"`
	IsActive      bool          `db:"is_active"`
}

type broadcastInsertModel struct {
	PlayerName    string `db:"player_name"`
	CourtID       *int   `db:"court_id"`
	CourtName     string `db:"court_name"`
	Message       string `db:"message"`
	PlayersNeeded string `db:"players_needed"`
	SkillLevel    string `db:"skill_level"`
	RunType       string `db:"run_type"`
}
