package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/courtside/internal/domain/broadcast"
	"github.com/riskibarqy/courtside/internal/domain/court"
	"github.com/riskibarqy/courtside/internal/domain/realtime"
	"github.com/riskibarqy/courtside/internal/platform/logging"
)

// BroadcastScope is the only scope of the broadcast feed: every recent broadcast.
type BroadcastScope struct{}

type BroadcastConfig struct {
	Window time.Duration
	Retry  RetryPolicy
}

type PublishBroadcastInput struct {
	Message    string
	PlayerName string
	// CourtName labels the broadcast when this client is not checked in anywhere.
	CourtName     string
	PlayersNeeded string
	SkillLevel    string
	RunType       string
}

type BroadcastService struct {
	feed    *Feed[BroadcastScope, broadcast.Broadcast]
	repo    broadcast.Repository
	catalog court.Catalog
	session *SessionStore
	clock   clockwork.Clock
	window  time.Duration
	logger  *logging.Logger

	mu        sync.RWMutex
	dismissed map[string]struct{}
}

func NewBroadcastService(
	repo broadcast.Repository,
	subscriber realtime.Subscriber,
	catalog court.Catalog,
	session *SessionStore,
	clock clockwork.Clock,
	cfg BroadcastConfig,
	logger *logging.Logger,
) *BroadcastService {
	if logger == nil {
		logger = logging.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if cfg.Window <= 0 {
		cfg.Window = broadcast.ListWindow
	}

	source := &broadcastSource{repo: repo, clock: clock, window: cfg.Window}
	return &BroadcastService{
		feed:      newFeed[BroadcastScope, broadcast.Broadcast]("broadcasts", source, subscriber, cfg.Retry, logger),
		repo:      repo,
		catalog:   catalog,
		session:   session,
		clock:     clock,
		window:    cfg.Window,
		logger:    logger,
		dismissed: make(map[string]struct{}),
	}
}

func (s *BroadcastService) Feed() *Feed[BroadcastScope, broadcast.Broadcast] {
	return s.feed
}

func (s *BroadcastService) Activate(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BroadcastService.Activate")
	defer span.End()

	if err := s.feed.Activate(ctx, BroadcastScope{}); err != nil {
		return fmt.Errorf("activate broadcasts: %w", err)
	}
	return nil
}

func (s *BroadcastService) Refresh(ctx context.Context) error {
	if err := s.feed.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh broadcasts: %w", err)
	}
	return nil
}

func (s *BroadcastService) Deactivate() {
	s.feed.Deactivate()
}

// List returns listed broadcasts newest first, without locally dismissed ones.
func (s *BroadcastService) List() []broadcast.Broadcast {
	now := s.clock.Now()
	items := s.feed.Items()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]broadcast.Broadcast, 0, len(items))
	for _, item := range items {
		if !item.ListedAt(now, s.window) {
			continue
		}
		if _, hidden := s.dismissed[item.ID]; hidden {
			continue
		}
		out = append(out, item)
	}
	return out
}

// CourtsBroadcasting returns the courts targeted by a listed broadcast.
func (s *BroadcastService) CourtsBroadcasting() map[int]bool {
	out := make(map[int]bool)
	for _, item := range s.List() {
		if item.CourtID != nil {
			out[*item.CourtID] = true
		}
	}
	return out
}

func (s *BroadcastService) Publish(ctx context.Context, input PublishBroadcastInput) (broadcast.Broadcast, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BroadcastService.Publish")
	defer span.End()

	current := s.session.Snapshot()
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return broadcast.Broadcast{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	playerName := strings.TrimSpace(input.PlayerName)
	if playerName == "" {
		playerName = strings.TrimSpace(current.DisplayName())
	}
	if playerName == "" {
		return broadcast.Broadcast{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	playersNeeded := strings.TrimSpace(input.PlayersNeeded)
	if playersNeeded == "" {
		playersNeeded = broadcast.DefaultPlayersNeeded
	}
	if !broadcast.ValidPlayersNeeded(playersNeeded) {
		return broadcast.Broadcast{}, fmt.Errorf("%w: players needed must be one of %s", ErrInvalidInput, strings.Join(broadcast.PlayersNeededChoices, ", "))
	}
	skillLevel := strings.TrimSpace(input.SkillLevel)
	if skillLevel == "" {
		skillLevel = broadcast.DefaultSkillLevel
	}
	if !broadcast.ValidSkillLevel(skillLevel) {
		return broadcast.Broadcast{}, fmt.Errorf("%w: unknown skill level %q", ErrInvalidInput, skillLevel)
	}
	runType := strings.TrimSpace(input.RunType)
	if runType == "" {
		runType = broadcast.DefaultRunType
	}
	if !broadcast.ValidRunType(runType) {
		return broadcast.Broadcast{}, fmt.Errorf("%w: unknown run type %q", ErrInvalidInput, runType)
	}

	courtName := strings.TrimSpace(input.CourtName)
	if courtName == "" {
		courtName = broadcast.UnknownCourt
	}
	record := broadcast.NewBroadcast{
		PlayerName:    playerName,
		CourtName:     courtName,
		Message:       message,
		PlayersNeeded: playersNeeded,
		SkillLevel:    skillLevel,
		RunType:       runType,
	}
	if current.CheckedIn() {
		courtID := current.CourtID
		record.CourtID = &courtID
		item, ok, err := s.catalog.GetByID(ctx, courtID)
		if err != nil {
			return broadcast.Broadcast{}, fmt.Errorf("get court: %w", err)
		}
		if ok {
			record.CourtName = item.Name
		}
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return broadcast.Broadcast{}, fmt.Errorf("%w: create broadcast: %v", ErrDependencyUnavailable, err)
	}
	s.feed.Merge(created)

	s.logger.InfoContext(ctx, "broadcast published",
		"broadcast_id", created.ID,
		"players_needed", created.PlayersNeeded,
	)
	return created, nil
}

// Dismiss hides a broadcast for this client only.
func (s *BroadcastService) Dismiss(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: broadcast id is required", ErrInvalidInput)
	}
	s.mu.Lock()
	s.dismissed[id] = struct{}{}
	s.mu.Unlock()
	return nil
}

type broadcastSource struct {
	repo   broadcast.Repository
	clock  clockwork.Clock
	window time.Duration
}

func (s *broadcastSource) Collection() string {
	return realtime.CollectionBroadcasts
}

func (s *broadcastSource) Snapshot(ctx context.Context, _ BroadcastScope) ([]broadcast.Broadcast, error) {
	items, err := s.repo.ListActive(ctx, s.clock.Now().Add(-s.window))
	if err != nil {
		return nil, fmt.Errorf("list active broadcasts: %w", err)
	}
	return items, nil
}

func (s *broadcastSource) Classify(_ BroadcastScope, event realtime.ChangeEvent) (feedAction, broadcast.Broadcast, error) {
	var item broadcast.Broadcast
	if err := sonic.Unmarshal(event.Record, &item); err != nil {
		return feedIgnore, item, fmt.Errorf("decode broadcast: %w", err)
	}
	if strings.TrimSpace(item.ID) == "" {
		return feedIgnore, item, fmt.Errorf("decode broadcast: missing id")
	}

	switch event.Operation {
	case realtime.OperationInsert, realtime.OperationUpdate:
		listed := item.ListedAt(s.clock.Now(), s.window)
		switch {
		case listed && event.Operation == realtime.OperationUpdate:
			return feedReplace, item, nil
		case listed:
			return feedMerge, item, nil
		case event.Operation == realtime.OperationUpdate:
			return feedRemove, item, nil
		}
		return feedIgnore, item, nil
	case realtime.OperationDelete:
		return feedRemove, item, nil
	}
	return feedIgnore, item, nil
}

func (s *broadcastSource) Key(item broadcast.Broadcast) string {
	return item.ID
}

func (s *broadcastSource) Less(a, b broadcast.Broadcast) bool {
	return a.CreatedAt.After(b.CreatedAt)
}
