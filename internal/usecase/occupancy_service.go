package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/courtside/internal/domain/checkin"
	"github.com/riskibarqy/courtside/internal/domain/realtime"
	"github.com/riskibarqy/courtside/internal/platform/logging"
)

// presenceClockSkew is how far a remote checked_in_at may precede the local
// check-in time and still be recognised as the same check-in.
const presenceClockSkew = 2 * time.Minute

// OccupancyScope narrows the occupancy feed to one court; zero follows every court.
type OccupancyScope struct {
	CourtID int
}

type OccupancyConfig struct {
	Window time.Duration
	Retry  RetryPolicy
}

// presence is the locally authoritative check-in of this client. Until the
// remote record ID is known it is matched to a projected record by court, name
// and check-in time, skipping records that were projected before it existed.
type presence struct {
	courtID     int
	playerName  string
	checkedInAt time.Time
	recordID    string
	preexisting map[string]struct{}
	// unconfirmed is set when the insert failed; no remote record will ever match.
	unconfirmed bool
}

func (p *presence) match(items []checkin.CheckIn) (checkin.CheckIn, bool) {
	if p.unconfirmed {
		return checkin.CheckIn{}, false
	}
	for _, item := range items {
		if p.recordID != "" {
			if item.ID == p.recordID {
				return item, true
			}
			continue
		}
		if _, seen := p.preexisting[item.ID]; seen {
			continue
		}
		if item.CourtID == p.courtID &&
			strings.EqualFold(item.PlayerName, p.playerName) &&
			!item.CheckedInAt.Before(p.checkedInAt.Add(-presenceClockSkew)) {
			return item, true
		}
	}
	return checkin.CheckIn{}, false
}

// OccupancyService projects active check-ins into per-court player counts.
type OccupancyService struct {
	feed   *Feed[OccupancyScope, checkin.CheckIn]
	clock  clockwork.Clock
	window time.Duration
	logger *logging.Logger

	mu    sync.Mutex
	local *presence
	// released holds records this client gave up whose remote close may still
	// be in flight; a reload must not count them again.
	released map[string]time.Time
}

func NewOccupancyService(
	repo checkin.Repository,
	subscriber realtime.Subscriber,
	clock clockwork.Clock,
	cfg OccupancyConfig,
	logger *logging.Logger,
) *OccupancyService {
	if logger == nil {
		logger = logging.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if cfg.Window <= 0 {
		cfg.Window = checkin.ActiveWindow
	}

	source := &occupancySource{repo: repo, clock: clock, window: cfg.Window}
	return &OccupancyService{
		feed:   newFeed[OccupancyScope, checkin.CheckIn]("occupancy", source, subscriber, cfg.Retry, logger),
		clock:  clock,
		window: cfg.Window,
		logger: logger,

		released: make(map[string]time.Time),
	}
}

func (s *OccupancyService) Feed() *Feed[OccupancyScope, checkin.CheckIn] {
	return s.feed
}

func (s *OccupancyService) Activate(ctx context.Context, scope OccupancyScope) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.OccupancyService.Activate")
	defer span.End()

	if scope.CourtID < 0 {
		return fmt.Errorf("%w: court id must be >= 0", ErrInvalidInput)
	}
	if err := s.feed.Activate(ctx, scope); err != nil {
		return fmt.Errorf("activate occupancy: %w", err)
	}
	return nil
}

func (s *OccupancyService) Refresh(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.OccupancyService.Refresh")
	defer span.End()

	if err := s.feed.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh occupancy: %w", err)
	}
	return nil
}

func (s *OccupancyService) Deactivate() {
	s.feed.Deactivate()
}

// Counts returns the number of players per court. Records older than the window
// stop counting even if they were never closed.
func (s *OccupancyService) Counts() map[int]int {
	now := s.clock.Now()
	items := s.feed.Items()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneReleasedLocked(now)

	counts := make(map[int]int)
	visible := make([]checkin.CheckIn, 0, len(items))
	for _, item := range items {
		if _, gone := s.released[item.ID]; gone {
			continue
		}
		if item.CountsAt(now, s.window) {
			counts[item.CourtID]++
			visible = append(visible, item)
		}
	}

	if s.overlaysLocked(visible, now) {
		counts[s.local.courtID]++
	}
	return counts
}

func (s *OccupancyService) Count(courtID int) int {
	return s.Counts()[courtID]
}

// MarkPresent records this client at courtID, replacing any earlier presence.
func (s *OccupancyService) MarkPresent(courtID int, playerName string, at time.Time) {
	items := s.feed.Items()
	preexisting := make(map[string]struct{}, len(items))
	for _, item := range items {
		preexisting[item.ID] = struct{}{}
	}

	s.mu.Lock()
	s.local = &presence{
		courtID:     courtID,
		playerName:  playerName,
		checkedInAt: at,
		preexisting: preexisting,
	}
	s.mu.Unlock()
}

// AttachRecord links the remote record ID to the presence at courtID.
func (s *OccupancyService) AttachRecord(courtID int, recordID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.local == nil || s.local.courtID != courtID {
		return
	}
	s.local.recordID = recordID
}

// MarkUnconfirmed keeps the presence at courtID counted after its insert failed.
func (s *OccupancyService) MarkUnconfirmed(courtID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.local == nil || s.local.courtID != courtID || s.local.recordID != "" {
		return
	}
	s.local.unconfirmed = true
}

// Release forgets the presence at courtID and drops its record from the
// projection. Without a known record ID the record the presence was matched to
// is dropped instead.
func (s *OccupancyService) Release(courtID int, recordID string) {
	items := s.feed.Items()

	s.mu.Lock()
	if s.local != nil && s.local.courtID == courtID {
		if recordID == "" {
			recordID = s.local.recordID
		}
		if recordID == "" {
			if matched, ok := s.local.match(items); ok {
				recordID = matched.ID
			}
		}
		s.local = nil
	}
	if recordID != "" {
		s.released[recordID] = s.clock.Now()
	}
	s.mu.Unlock()

	if recordID != "" {
		s.feed.Remove(checkin.CheckIn{ID: recordID})
	}
}

// Forget drops recordID from the projection without touching the presence.
func (s *OccupancyService) Forget(recordID string) {
	if recordID == "" {
		return
	}
	s.mu.Lock()
	s.released[recordID] = s.clock.Now()
	s.mu.Unlock()
	s.feed.Remove(checkin.CheckIn{ID: recordID})
}

// overlaysLocked reports whether the local presence is not yet reflected by visible.
func (s *OccupancyService) overlaysLocked(visible []checkin.CheckIn, now time.Time) bool {
	local := s.local
	if local == nil || local.courtID <= 0 || local.checkedInAt.Before(now.Add(-s.window)) {
		return false
	}
	_, reflected := local.match(visible)
	return !reflected
}

func (s *OccupancyService) pruneReleasedLocked(now time.Time) {
	for id, at := range s.released {
		if at.Before(now.Add(-s.window)) {
			delete(s.released, id)
		}
	}
}

type occupancySource struct {
	repo   checkin.Repository
	clock  clockwork.Clock
	window time.Duration
}

func (s *occupancySource) Collection() string {
	return realtime.CollectionCheckIns
}

func (s *occupancySource) Snapshot(ctx context.Context, scope OccupancyScope) ([]checkin.CheckIn, error) {
	items, err := s.repo.ListActive(ctx, checkin.ListActiveQuery{
		Since:   s.clock.Now().Add(-s.window),
		CourtID: scope.CourtID,
	})
	if err != nil {
		return nil, fmt.Errorf("list active check-ins: %w", err)
	}
	return items, nil
}

func (s *occupancySource) Classify(scope OccupancyScope, event realtime.ChangeEvent) (feedAction, checkin.CheckIn, error) {
	var item checkin.CheckIn
	if err := sonic.Unmarshal(event.Record, &item); err != nil {
		return feedIgnore, item, fmt.Errorf("decode check-in: %w", err)
	}
	if strings.TrimSpace(item.ID) == "" {
		return feedIgnore, item, fmt.Errorf("decode check-in: missing id")
	}

	if event.Operation == realtime.OperationDelete {
		return feedRemove, item, nil
	}
	if scope.CourtID > 0 && item.CourtID != scope.CourtID {
		return feedIgnore, item, nil
	}

	counts := item.CountsAt(s.clock.Now(), s.window)
	switch event.Operation {
	case realtime.OperationInsert:
		if counts {
			return feedMerge, item, nil
		}
		return feedIgnore, item, nil
	case realtime.OperationUpdate:
		if counts {
			return feedReplace, item, nil
		}
		return feedRemove, item, nil
	}
	return feedIgnore, item, nil
}

func (s *occupancySource) Key(item checkin.CheckIn) string {
	return item.ID
}

func (s *occupancySource) Less(a, b checkin.CheckIn) bool {
	return a.CheckedInAt.Before(b.CheckedInAt)
}
