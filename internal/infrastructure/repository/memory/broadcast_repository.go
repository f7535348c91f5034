package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/courtside/internal/domain/broadcast"
	"github.com/riskibarqy/courtside/internal/domain/realtime"
	"github.com/riskibarqy/courtside/internal/platform/id"
)

type BroadcastRepository struct {
	mu    sync.RWMutex
	items map[string]broadcast.Broadcast
	hub   *Hub
	clock clockwork.Clock
	ids   id.Generator
}

func NewBroadcastRepository(hub *Hub, clock clockwork.Clock, ids id.Generator) *BroadcastRepository {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &BroadcastRepository{
		items: make(map[string]broadcast.Broadcast),
		hub:   hub,
		clock: clock,
		ids:   ids,
	}
}

func (r *BroadcastRepository) ListActive(_ context.Context, since time.Time) ([]broadcast.Broadcast, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]broadcast.Broadcast, 0, len(r.items))
	for _, item := range r.items {
		if item.IsActive && !item.CreatedAt.Before(since) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *BroadcastRepository) Create(_ context.Context, input broadcast.NewBroadcast) (broadcast.Broadcast, error) {
	recordID, err := r.ids.NewID()
	if err != nil {
		return broadcast.Broadcast{}, fmt.Errorf("generate broadcast id: %w", err)
	}

	item := broadcast.Broadcast{
		ID:            recordID,
		PlayerName:    input.PlayerName,
		CourtID:       input.CourtID,
		CourtName:     input.CourtName,
		Message:       input.Message,
		PlayersNeeded: input.PlayersNeeded,
		SkillLevel:    input.SkillLevel,
		RunType:       input.RunType,
		CreatedAt:     r.clock.Now(),
		IsActive:      true,
	}

	r.mu.Lock()
	r.items[item.ID] = item
	r.mu.Unlock()

	if err := r.hub.PublishRecord(realtime.OperationInsert, realtime.CollectionBroadcasts, item); err != nil {
		return item, fmt.Errorf("publish broadcast insert: %w", err)
	}
	return item, nil
}
