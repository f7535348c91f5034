package postgres

import (
	"database/sql"
	"time"
)

const chatMessageColumns = "id, chat_type, court_id, court_name, player_name, message, created_at"

type chatMessageTableModel struct {
	ID         string         `db:"id"`
	ChatType   string         `db:"chat_type"`
	CourtID    sql.NullInt64  `db:"court_id"`
	CourtName  sql.NullString `db:"court_name"`
	PlayerName string         `db:"player_name"`
	Message    string         `db:"message"`
	CreatedAt  time.Time      `db:"created_at"`
}

type chatMessageInsertModel struct {
	ChatType   string  `db:"chat_type"`
	CourtID    *int    `db:"court_id"`
	CourtName  *string `db:"court_name"`
	PlayerName string  `db:"player_name"`
	Message    string  `db:"message"`
}
