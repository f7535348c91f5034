package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/courtside/internal/domain/checkin"
	qb "github.com/riskibarqy/courtside/internal/platform/querybuilder"
)

type CheckInRepository struct {
	db *sqlx.DB
}

func NewCheckInRepository(db *sqlx.DB) *CheckInRepository {
	return &CheckInRepository{db: db}
}

func (r *CheckInRepository) ListActive(ctx context.Context, query checkin.ListActiveQuery) ([]checkin.CheckIn, error) {
	conditions := []qb.Condition{
		qb.Eq("is_active", true),
		qb.Gte("checked_in_at", query.Since),
	}
	if query.CourtID > 0 {
		conditions = append(conditions, qb.Eq("court_id", query.CourtID))
	}

	sqlQuery, args, err := qb.Select(checkInColumns).
		From("check_ins").
		Where(conditions...).
		OrderBy("checked_in_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select active check-ins query: %w", err)
	}

	var rows []checkInTableModel
	if err := r.db.SelectContext(ctx, &rows, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("select active check-ins: %w", err)
	}

	out := make([]checkin.CheckIn, 0, len(rows))
	for _, row := range rows {
		out = append(out, checkInFromRow(row))
	}
	return out, nil
}

// Create inserts a check-in. checked_in_at and is_active come from column defaults.
func (r *CheckInRepository) Create(ctx context.Context, input checkin.NewCheckIn) (checkin.CheckIn, error) {
	insertModel := checkInInsertModel{
		CourtID:    input.CourtID,
		PlayerName: strings.TrimSpace(input.PlayerName),
		Duration:   input.Duration,
	}

	sqlQuery, args, err := qb.InsertModel("check_ins", insertModel, "RETURNING "+checkInColumns)
	if err != nil {
		return checkin.CheckIn{}, fmt.Errorf("build insert check-in query: %w", err)
	}

	var row checkInTableModel
	if err := r.db.GetContext(ctx, &row, sqlQuery, args...); err != nil {
		return checkin.CheckIn{}, fmt.Errorf("insert check-in court=%d: %w", input.CourtID, err)
	}
	return checkInFromRow(row), nil
}

// Close marks the check-in inactive. Closing an unknown or already closed record is not an error.
func (r *CheckInRepository) Close(ctx context.Context, id string, at time.Time) error {
	sqlQuery, args, err := qb.Update("check_ins").
		Set("is_active", false).
		SetExpr("checked_out_at", "COALESCE(checked_out_at, ?)", at).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build close check-in query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("close check-in id=%s: %w", id, err)
	}
	return nil
}

func checkInFromRow(row checkInTableModel) checkin.CheckIn {
	item := checkin.CheckIn{
		ID:          row.ID,
		CourtID:     row.CourtID,
		PlayerName:  row.PlayerName,
		Duration:    row.Duration,
		CheckedInAt: row.CheckedInAt,
		IsActive:    row.IsActive,
	}
	if row.CheckedOutAt.Valid {
		checkedOutAt := row.CheckedOutAt.Time
		item.CheckedOutAt = &checkedOutAt
	}
	return item
}
