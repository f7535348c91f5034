package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/courtside/internal/domain/chat"
	"github.com/riskibarqy/courtside/internal/domain/realtime"
	"github.com/riskibarqy/courtside/internal/platform/id"
)

type ChatRepository struct {
	mu    sync.RWMutex
	items []chat.Message
	hub   *Hub
	clock clockwork.Clock
	ids   id.Generator
}

func NewChatRepository(hub *Hub, clock clockwork.Clock, ids id.Generator) *ChatRepository {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &ChatRepository{
		hub:   hub,
		clock: clock,
		ids:   ids,
	}
}

func (r *ChatRepository) ListRecent(_ context.Context, scope chat.Scope, limit int) ([]chat.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]chat.Message, 0, len(r.items))
	for _, item := range r.items {
		if scope.Matches(item) {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}

	return out, nil
}

func (r *ChatRepository) Create(_ context.Context, input chat.NewMessage) (chat.Message, error) {
	recordID, err := r.ids.NewID()
	if err != nil {
		return chat.Message{}, fmt.Errorf("generate chat message id: %w", err)
	}

	item := chat.Message{
		ID:         recordID,
		Type:       input.Type,
		CourtID:    input.CourtID,
		CourtName:  input.CourtName,
		PlayerName: input.PlayerName,
		Message:    input.Message,
		CreatedAt:  r.clock.Now(),
	}

	r.mu.Lock()
	r.items = append(r.items, item)
	r.mu.Unlock()

	if err := r.hub.PublishRecord(realtime.OperationInsert, realtime.CollectionChatMessages, item); err != nil {
		return item, fmt.Errorf("publish chat insert: %w", err)
	}
	return item, nil
}
