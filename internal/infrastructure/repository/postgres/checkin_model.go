package postgres

import (
	"database/sql"
	"time"
)

const checkInColumns = "id, court_id, player_name, duration, checked_in_at, is_active, checked_out_at"

type checkInTableModel struct {
	ID           string       `db:"id"`
	CourtID      int          `db:"court_id"`
	PlayerName   string       `db:"player_name"`
	Duration     string       `db:"duration"`
	CheckedInAt  time.Time    `db:"checked_in_at"`
	IsActive     bool         `db:"is_active"`
	CheckedOutAt sql.NullTime `db:"checked_out_at"`
}

type checkInInsertModel struct {
	CourtID    int    `db:"court_id"`
	PlayerName string `db:"player_name"`
	Duration   string `db:"duration,omitzero"`
}
