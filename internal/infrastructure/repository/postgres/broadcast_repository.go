package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/courtside/internal/domain/broadcast"
	qb "github.com/riskibarqy/courtside/internal/platform/querybuilder"
)

type BroadcastRepository struct {
	db *sqlx.DB
}

func NewBroadcastRepository(db *sqlx.DB) *BroadcastRepository {
	return &BroadcastRepository{db: db}
}

func (r *BroadcastRepository) ListActive(ctx context.Context, since time.Time) ([]broadcast.Broadcast, error) {
	query, args, err := qb.Select(broadcastColumns).
		From("broadcasts").
		Where(
			qb.Eq("is_active", true),
			qb.Gte("created_at", since),
		).
		OrderBy("created_at DESC", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select active broadcasts query: %w", err)
	}

	var rows []broadcastTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select active broadcasts: %w", err)
	}

	out := make([]broadcast.Broadcast, 0, len(rows))
	for _, row := range rows {
		out = append(out, broadcastFromRow(row))
	}
	return out, nil
}

func (r *BroadcastRepository) Create(ctx context.Context, input broadcast.NewBroadcast) (broadcast.Broadcast, error) {
	insertModel := broadcastInsertModel{
		PlayerName:    input.PlayerName,
		CourtID:       input.CourtID,
		CourtName:     input.CourtName,
		Message:       input.Message,
		PlayersNeeded: input.PlayersNeeded,
		SkillLevel:    input.SkillLevel,
		RunType:       input.RunType,
	}

	query, args, err := qb.InsertModel("broadcasts", insertModel, "RETURNING "+broadcastColumns)
	if err != nil {
		return broadcast.Broadcast{}, fmt.Errorf("build insert broadcast query: %w", err)
	}

	var row broadcastTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return broadcast.Broadcast{}, fmt.Errorf("insert broadcast: %w", err)
	}
	return broadcastFromRow(row), nil
}

func broadcastFromRow(row broadcastTableModel) broadcast.Broadcast {
	return broadcast.Broadcast{
		ID:            row.ID,
		PlayerName:    row.PlayerName,
		CourtID:       nullInt64ToIntPtr(row.CourtID),
		CourtName:     row.CourtName,
		Message:       row.Message,
		PlayersNeeded: row.PlayersNeeded,
		SkillLevel:    row.SkillLevel,
		RunType:       row.RunType,
		CreatedAt:     row.CreatedAt,
		IsActive:      row.IsActive,
	}
}
