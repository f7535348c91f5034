package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/courtside/internal/domain/chat"
	"github.com/riskibarqy/courtside/internal/domain/court"
	"github.com/riskibarqy/courtside/internal/domain/realtime"
	"github.com/riskibarqy/courtside/internal/platform/logging"
)

type ChatConfig struct {
	HistoryLimit int
	Retry        RetryPolicy
}

type SelectChatScopeInput struct {
	Mode    chat.Mode
	CourtID int
}

// ChatService follows one chat room at a time and counts messages that arrive
// while the chat panel is closed.
type ChatService struct {
	feed    *Feed[chat.Scope, chat.Message]
	repo    chat.Repository
	catalog court.Catalog
	session *SessionStore
	logger  *logging.Logger

	mu        sync.Mutex
	panelOpen bool
	unread    int
}

func NewChatService(
	repo chat.Repository,
	subscriber realtime.Subscriber,
	catalog court.Catalog,
	session *SessionStore,
	cfg ChatConfig,
	logger *logging.Logger,
) *ChatService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = chat.HistoryLimit
	}

	source := &chatSource{repo: repo, limit: cfg.HistoryLimit}
	s := &ChatService{
		feed:    newFeed[chat.Scope, chat.Message]("chat", source, subscriber, cfg.Retry, logger),
		repo:    repo,
		catalog: catalog,
		session: session,
		logger:  logger,
	}
	s.feed.OnChange(s.countUnread)
	return s
}

func (s *ChatService) Feed() *Feed[chat.Scope, chat.Message] {
	return s.feed
}

// SelectScope resolves the room for input and points the feed at it. Court mode
// uses the given court, else the checked-in court, else the first catalog court.
func (s *ChatService) SelectScope(ctx context.Context, input SelectChatScopeInput) (chat.Scope, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChatService.SelectScope")
	defer span.End()

	scope, err := s.resolveScope(ctx, input)
	if err != nil {
		return chat.Scope{}, err
	}
	if err := s.feed.Activate(ctx, scope); err != nil {
		return scope, fmt.Errorf("activate chat: %w", err)
	}
	return scope, nil
}

func (s *ChatService) Refresh(ctx context.Context) error {
	if err := s.feed.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh chat: %w", err)
	}
	return nil
}

func (s *ChatService) Deactivate() {
	s.feed.Deactivate()
}

func (s *ChatService) Scope() (chat.Scope, bool) {
	return s.feed.Scope()
}

// Messages returns the followed room in ascending creation order.
func (s *ChatService) Messages() []chat.Message {
	return s.feed.Items()
}

func (s *ChatService) Send(ctx context.Context, text string) (chat.Message, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChatService.Send")
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return chat.Message{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	current := s.session.Snapshot()
	playerName := strings.TrimSpace(current.DisplayName())
	if playerName == "" {
		return chat.Message{}, fmt.Errorf("%w: player name is required to chat", ErrInvalidInput)
	}
	scope, active := s.feed.Scope()
	if !active {
		return chat.Message{}, fmt.Errorf("%w: chat", ErrFeedInactive)
	}

	record := chat.NewMessage{
		Type:       scope.Mode,
		PlayerName: playerName,
		Message:    text,
	}
	nameCourtID := current.CourtID
	if scope.Mode == chat.ModeCourt {
		courtID := scope.CourtID
		record.CourtID = &courtID
		nameCourtID = courtID
	}
	if nameCourtID > 0 {
		item, ok, err := s.catalog.GetByID(ctx, nameCourtID)
		if err != nil {
			return chat.Message{}, fmt.Errorf("get court: %w", err)
		}
		if ok {
			name := item.Name
			record.CourtName = &name
		}
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return chat.Message{}, fmt.Errorf("%w: create chat message: %v", ErrDependencyUnavailable, err)
	}
	if scope.Matches(created) {
		s.feed.Merge(created)
	}
	return created, nil
}

// SetPanelOpen records whether the chat is visible; opening it clears the unread count.
func (s *ChatService) SetPanelOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panelOpen = open
	if open {
		s.unread = 0
	}
}

func (s *ChatService) Unread() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

func (s *ChatService) countUnread(change FeedChange[chat.Message]) {
	if change.Kind != FeedInserted || !change.Live {
		return
	}
	s.mu.Lock()
	if !s.panelOpen {
		s.unread++
	}
	s.mu.Unlock()
}

func (s *ChatService) resolveScope(ctx context.Context, input SelectChatScopeInput) (chat.Scope, error) {
	switch input.Mode {
	case chat.ModeGlobal, "":
		return chat.GlobalScope(), nil
	case chat.ModeCourt:
	default:
		return chat.Scope{}, fmt.Errorf("%w: unknown chat mode %q", ErrInvalidInput, input.Mode)
	}

	if input.CourtID > 0 {
		_, ok, err := s.catalog.GetByID(ctx, input.CourtID)
		if err != nil {
			return chat.Scope{}, fmt.Errorf("get court: %w", err)
		}
		if !ok {
			return chat.Scope{}, fmt.Errorf("%w: court=%d", ErrNotFound, input.CourtID)
		}
		return chat.CourtScope(input.CourtID), nil
	}
	if current := s.session.Snapshot(); current.CheckedIn() {
		return chat.CourtScope(current.CourtID), nil
	}

	courts, err := s.catalog.List(ctx)
	if err != nil {
		return chat.Scope{}, fmt.Errorf("list courts: %w", err)
	}
	if len(courts) == 0 {
		return chat.Scope{}, fmt.Errorf("%w: no courts available", ErrNotFound)
	}
	return chat.CourtScope(courts[0].ID), nil
}

type chatSource struct {
	repo  chat.Repository
	limit int
}

func (s *chatSource) Collection() string {
	return realtime.CollectionChatMessages
}

func (s *chatSource) Snapshot(ctx context.Context, scope chat.Scope) ([]chat.Message, error) {
	items, err := s.repo.ListRecent(ctx, scope, s.limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	return items, nil
}

func (s *chatSource) Classify(scope chat.Scope, event realtime.ChangeEvent) (feedAction, chat.Message, error) {
	var item chat.Message
	if err := sonic.Unmarshal(event.Record, &item); err != nil {
		return feedIgnore, item, fmt.Errorf("decode chat message: %w", err)
	}
	if strings.TrimSpace(item.ID) == "" {
		return feedIgnore, item, fmt.Errorf("decode chat message: missing id")
	}

	switch event.Operation {
	case realtime.OperationInsert:
		if scope.Matches(item) {
			return feedMerge, item, nil
		}
		return feedIgnore, item, nil
	case realtime.OperationUpdate:
		if scope.Matches(item) {
			return feedReplace, item, nil
		}
		return feedIgnore, item, nil
	case realtime.OperationDelete:
		return feedRemove, item, nil
	}
	return feedIgnore, item, nil
}

func (s *chatSource) Key(item chat.Message) string {
	return item.ID
}

func (s *chatSource) Less(a, b chat.Message) bool {
	return a.CreatedAt.Before(b.CreatedAt)
}
