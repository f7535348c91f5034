package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/courtside/internal/domain/checkin"
	"github.com/riskibarqy/courtside/internal/domain/realtime"
	"github.com/riskibarqy/courtside/internal/platform/id"
)

type CheckInRepository struct {
	mu    sync.RWMutex
	items map[string]checkin.CheckIn
	hub   *Hub
	clock clockwork.Clock
	ids   id.Generator
}

func NewCheckInRepository(hub *Hub, clock clockwork.Clock, ids id.Generator) *CheckInRepository {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &CheckInRepository{
		items: make(map[string]checkin.CheckIn),
		hub:   hub,
		clock: clock,
		ids:   ids,
	}
}

func (r *CheckInRepository) ListActive(_ context.Context, query checkin.ListActiveQuery) ([]checkin.CheckIn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]checkin.CheckIn, 0, len(r.items))
	for _, item := range r.items {
		if !item.IsActive || item.CheckedInAt.Before(query.Since) {
			continue
		}
		if query.CourtID > 0 && item.CourtID != query.CourtID {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CheckedInAt.Before(out[j].CheckedInAt)
	})

	return out, nil
}

func (r *CheckInRepository) Create(_ context.Context, input checkin.NewCheckIn) (checkin.CheckIn, error) {
	recordID, err := r.ids.NewID()
	if err != nil {
		return checkin.CheckIn{}, fmt.Errorf("generate check-in id: %w", err)
	}

	item := checkin.CheckIn{
		ID:          recordID,
		CourtID:     input.CourtID,
		PlayerName:  input.PlayerName,
		Duration:    input.Duration,
		CheckedInAt: r.clock.Now(),
		IsActive:    true,
	}

	r.mu.Lock()
	r.items[item.ID] = item
	r.mu.Unlock()

	if err := r.hub.PublishRecord(realtime.OperationInsert, realtime.CollectionCheckIns, item); err != nil {
		return item, fmt.Errorf("publish check-in insert: %w", err)
	}
	return item, nil
}

// Close marks a check-in inactive. Unknown IDs are ignored, like an UPDATE matching no rows.
func (r *CheckInRepository) Close(_ context.Context, recordID string, at time.Time) error {
	r.mu.Lock()
	item, ok := r.items[recordID]
	if ok {
		checkedOutAt := at
		item.IsActive = false
		item.CheckedOutAt = &checkedOutAt
		r.items[recordID] = item
	}
	r.mu.Unlock()

	if !ok {
		return nil
	}
	if err := r.hub.PublishRecord(realtime.OperationUpdate, realtime.CollectionCheckIns, item); err != nil {
		return fmt.Errorf("publish check-in update: %w", err)
	}
	return nil
}

func (r *CheckInRepository) Get(recordID string) (checkin.CheckIn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[recordID]
	return item, ok
}
