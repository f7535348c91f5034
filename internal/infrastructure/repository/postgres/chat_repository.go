package postgres

import (
	"context"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/courtside/internal/domain/chat"
	qb "github.com/riskibarqy/courtside/internal/platform/querybuilder"
)

type ChatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) ListRecent(ctx context.Context, scope chat.Scope, limit int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = chat.HistoryLimit
	}
	conditions := []qb.Condition{qb.Eq("chat_type", string(scope.Mode))}
	if scope.Mode == chat.ModeCourt {
		conditions = append(conditions, qb.Eq("court_id", scope.CourtID))
	}

	query, args, err := qb.Select(chatMessageColumns).
		From("chat_messages").
		Where(conditions...).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select chat messages query: %w", err)
	}

	var rows []chatMessageTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select chat messages mode=%s: %w", scope.Mode, err)
	}

	out := make([]chat.Message, 0, len(rows))
	for _, row := range rows {
		out = append(out, chatMessageFromRow(row))
	}
	slices.Reverse(out)
	return out, nil
}

func (r *ChatRepository) Create(ctx context.Context, input chat.NewMessage) (chat.Message, error) {
	insertModel := chatMessageInsertModel{
		ChatType:   string(input.Type),
		CourtID:    input.CourtID,
		CourtName:  input.CourtName,
		PlayerName: input.PlayerName,
		Message:    input.Message,
	}

	query, args, err := qb.InsertModel("chat_messages", insertModel, "RETURNING "+chatMessageColumns)
	if err != nil {
		return chat.Message{}, fmt.Errorf("build insert chat message query: %w", err)
	}

	var row chatMessageTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return chat.Message{}, fmt.Errorf("insert chat message: %w", err)
	}
	return chatMessageFromRow(row), nil
}

func chatMessageFromRow(row chatMessageTableModel) chat.Message {
	item := chat.Message{
		ID:         row.ID,
		Type:       chat.Mode(row.ChatType),
		CourtID:    nullInt64ToIntPtr(row.CourtID),
		PlayerName: row.PlayerName,
		Message:    row.Message,
		CreatedAt:  row.CreatedAt,
	}
	if row.CourtName.Valid {
		name := row.CourtName.String
		item.CourtName = &name
	}
	return item
}
