package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/courtside/internal/domain/chat"
	"github.com/riskibarqy/courtside/internal/infrastructure/localstore"
	"github.com/riskibarqy/courtside/internal/infrastructure/repository/memory"
	chatmock "github.com/riskibarqy/courtside/internal/mocks/domain/chat"
	"github.com/riskibarqy/courtside/internal/platform/logging"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	clock   *clockwork.FakeClock
	repo    *memory.ChatRepository
	session *SessionStore
	service *ChatService
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	clock := clockwork.NewFakeClock()
	hub := memory.NewHub()
	repo := memory.NewChatRepository(hub, clock, nil)
	session := LoadSessionStore(localstore.NewMemoryStore(), logging.NewNop())
	catalog := memory.NewCourtCatalog(memory.SeedCourts())
	service := NewChatService(repo, hub, catalog, session, ChatConfig{}, logging.NewNop())
	return &chatFixture{clock: clock, repo: repo, session: session, service: service}
}

func TestChatService_SelectScopeResolution(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)

	scope, err := f.service.SelectScope(context.Background(), SelectChatScopeInput{Mode: chat.ModeCourt})
	require.NoError(t, err)
	require.Equal(t, chat.CourtScope(1), scope, "falls back to the first court")

	require.NoError(t, f.session.BeginCheckIn(6, f.clock.Now()))
	scope, err = f.service.SelectScope(context.Background(), SelectChatScopeInput{Mode: chat.ModeCourt})
	require.NoError(t, err)
	require.Equal(t, chat.CourtScope(6), scope)

	scope, err = f.service.SelectScope(context.Background(), SelectChatScopeInput{Mode: chat.ModeCourt, CourtID: 3})
	require.NoError(t, err)
	require.Equal(t, chat.CourtScope(3), scope)

	scope, err = f.service.SelectScope(context.Background(), SelectChatScopeInput{})
	require.NoError(t, err)
	require.Equal(t, chat.GlobalScope(), scope)

	_, err = f.service.SelectScope(context.Background(), SelectChatScopeInput{Mode: chat.ModeCourt, CourtID: 99})
	require.ErrorIs(t, err, ErrNotFound)
	_, err = f.service.SelectScope(context.Background(), SelectChatScopeInput{Mode: "dm"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestChatService_SendRequiresNameAndText(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)
	_, err := f.service.Send(context.Background(), "hello")
	require.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, f.session.SetName(""))
	_, err = f.service.Send(context.Background(), "hello")
	require.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, f.session.SetName("Ty"))
	_, err = f.service.Send(context.Background(), "   ")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.Send(context.Background(), "hello")
	require.ErrorIs(t, err, ErrFeedInactive)
}

func TestChatService_SendInCourtModeTagsCourt(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)
	require.NoError(t, f.session.SetName("Ty"))
	_, err := f.service.SelectScope(context.Background(), SelectChatScopeInput{Mode: chat.ModeCourt, CourtID: 5})
	require.NoError(t, err)

	sent, err := f.service.Send(context.Background(), " who's got next ")
	require.NoError(t, err)
	require.Equal(t, chat.ModeCourt, sent.Type)
	require.Equal(t, "who's got next", sent.Message)
	require.NotNil(t, sent.CourtID)
	require.Equal(t, 5, *sent.CourtID)
	require.NotNil(t, sent.CourtName)
	require.Equal(t, "Church Square Park", *sent.CourtName)

	require.Len(t, f.service.Messages(), 1)
}

func TestChatService_GlobalMessageCarriesCheckedInCourtName(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)
	require.NoError(t, f.session.SetName("Ty"))
	require.NoError(t, f.session.BeginCheckIn(4, f.clock.Now()))
	_, err := f.service.SelectScope(context.Background(), SelectChatScopeInput{Mode: chat.ModeGlobal})
	require.NoError(t, err)

	sent, err := f.service.Send(context.Background(), "on my way")
	require.NoError(t, err)
	require.Nil(t, sent.CourtID)
	require.NotNil(t, sent.CourtName)
	require.Equal(t, "Pershing Field", *sent.CourtName)
}

func TestChatService_UnreadCountsLiveMessagesWhilePanelClosed(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)
	_, err := f.service.SelectScope(context.Background(), SelectChatScopeInput{Mode: chat.ModeGlobal})
	require.NoError(t, err)

	courtID := 2
	for _, input := range []chat.NewMessage{
		{Type: chat.ModeGlobal, PlayerName: "A", Message: "one"},
		{Type: chat.ModeGlobal, PlayerName: "B", Message: "two"},
		{Type: chat.ModeCourt, CourtID: &courtID, PlayerName: "C", Message: "elsewhere"},
	} {
		f.clock.Advance(time.Second)
		_, err := f.repo.Create(context.Background(), input)
		require.NoError(t, err)
	}
	require.Equal(t, 2, f.service.Unread())
	require.Len(t, f.service.Messages(), 2)

	f.service.SetPanelOpen(true)
	require.Equal(t, 0, f.service.Unread())
	_, err = f.repo.Create(context.Background(), chat.NewMessage{Type: chat.ModeGlobal, PlayerName: "A", Message: "three"})
	require.NoError(t, err)
	require.Equal(t, 0, f.service.Unread())
	require.Len(t, f.service.Messages(), 3)
}

func TestChatService_SnapshotUsesHistoryLimitUsingMockery(t *testing.T) {
	t.Parallel()

	repo := chatmock.NewRepository(t)
	session := LoadSessionStore(localstore.NewMemoryStore(), logging.NewNop())
	service := NewChatService(repo, memory.NewHub(), memory.NewCourtCatalog(memory.SeedCourts()), session, ChatConfig{}, logging.NewNop())

	repo.
		On("ListRecent", mock.Anything, chat.GlobalScope(), chat.HistoryLimit).
		Return([]chat.Message{{ID: "m1", Type: chat.ModeGlobal, Message: "hi"}}, nil).
		Once()

	_, err := service.SelectScope(context.Background(), SelectChatScopeInput{Mode: chat.ModeGlobal})
	require.NoError(t, err)
	require.Len(t, service.Messages(), 1)
}
