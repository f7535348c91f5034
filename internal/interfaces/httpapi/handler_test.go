package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jonboulle/clockwork"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/courtside/internal/domain/ticker"
	"github.com/riskibarqy/courtside/internal/infrastructure/localstore"
	"github.com/riskibarqy/courtside/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/courtside/internal/platform/logging"
	"github.com/riskibarqy/courtside/internal/usecase"
	"github.com/stretchr/testify/require"
)

type envelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

type staticScoreboards map[ticker.League][]ticker.Game

func (s staticScoreboards) Scoreboard(_ context.Context, league ticker.League) ([]ticker.Game, error) {
	return s[league], nil
}

type apiFixture struct {
	clock  *clockwork.FakeClock
	router http.Handler
}

func newAPIFixture(t *testing.T, withTicker bool) *apiFixture {
	t.Helper()

	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 7, 4, 17, 0, 0, 0, time.UTC))
	hub := memory.NewHub()
	logger := logging.NewNop()
	catalog := memory.NewCourtCatalog(memory.SeedCourts())
	checkIns := memory.NewCheckInRepository(hub, clock, nil)
	session := usecase.LoadSessionStore(localstore.NewMemoryStore(), logger)

	pool, err := ants.NewPool(2)
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	occupancy := usecase.NewOccupancyService(checkIns, hub, clock, usecase.OccupancyConfig{}, logger)
	broadcasts := usecase.NewBroadcastService(memory.NewBroadcastRepository(hub, clock, nil), hub, catalog, session, clock, usecase.BroadcastConfig{}, logger)
	chat := usecase.NewChatService(memory.NewChatRepository(hub, clock, nil), hub, catalog, session, usecase.ChatConfig{}, logger)
	services := Services{
		Onboarding: usecase.NewOnboardingService(session, catalog, clock, logger),
		Courts:     usecase.NewCourtService(catalog, occupancy, broadcasts, logger),
		Occupancy:  occupancy,
		CheckIns:   usecase.NewCheckInService(checkIns, catalog, session, occupancy, pool, clock, time.Second, logger),
		Broadcasts: broadcasts,
		Chat:       chat,
	}
	if withTicker {
		services.Ticker = usecase.NewTickerService(staticScoreboards{
			ticker.LeagueNBA: {{ID: "401", League: ticker.LeagueNBA, State: ticker.StateLive, StatusLabel: "Q3 4:12"}},
		}, nil, clock, time.Minute, logger)
		require.NoError(t, services.Ticker.Poll(ctx))
	}

	require.NoError(t, occupancy.Activate(ctx, usecase.OccupancyScope{}))
	require.NoError(t, broadcasts.Activate(ctx))
	t.Cleanup(func() {
		occupancy.Deactivate()
		broadcasts.Deactivate()
		chat.Deactivate()
	})

	return &apiFixture{
		clock:  clock,
		router: NewRouter(NewHandler(services, clock, logger), logger, []string{"*"}),
	}
}

func (f *apiFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Reader
	if body == "" {
		payload = bytes.NewReader(nil)
	} else {
		payload = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var body envelope[T]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, googleAPIVersion, body.APIVersion)
	require.Nil(t, body.Error, "unexpected error: %s", rec.Body.String())
	return body.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) googleErrorBody {
	t.Helper()

	var body envelope[any]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return *body.Error
}

func TestHandler_Healthz(t *testing.T) {
	f := newAPIFixture(t, false)

	rec := f.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeData[map[string]string](t, rec)["status"])
}

func TestHandler_SessionOnboarding(t *testing.T) {
	f := newAPIFixture(t, false)

	rec := f.do(t, http.MethodGet, "/v1/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decodeData[sessionDTO](t, rec).NeedsOnboarding)

	rec = f.do(t, http.MethodPut, "/v1/session/name", `{"name":"Maya","extra":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "INVALID_ARGUMENT", decodeError(t, rec).Status)

	rec = f.do(t, http.MethodPut, "/v1/session/name", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPut, "/v1/session/name", `{"name":"Maya"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeData[sessionDTO](t, rec)
	require.False(t, view.NeedsOnboarding)
	require.NotNil(t, view.Name)
	require.Equal(t, "Maya", *view.Name)
}

func TestHandler_SessionSkipName(t *testing.T) {
	f := newAPIFixture(t, false)

	rec := f.do(t, http.MethodPut, "/v1/session/name", `{"name":""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeData[sessionDTO](t, rec)
	require.False(t, view.NeedsOnboarding)
	require.NotNil(t, view.Name)
	require.Empty(t, *view.Name)

	rec = f.do(t, http.MethodGet, "/v1/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, decodeData[sessionDTO](t, rec).NeedsOnboarding)

	rec = f.do(t, http.MethodPut, "/v1/session/name", `{"name":null}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_CourtQueries(t *testing.T) {
	f := newAPIFixture(t, false)

	rec := f.do(t, http.MethodGet, "/v1/courts?filter=bogus", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/courts?sort=name", "")
	require.Equal(t, http.StatusOK, rec.Code)
	courts := decodeData[[]courtDTO](t, rec)
	require.Len(t, courts, 8)
	for i := 1; i < len(courts); i++ {
		require.LessOrEqual(t, courts[i-1].Name, courts[i].Name)
	}

	rec = f.do(t, http.MethodGet, "/v1/courts/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/courts/404", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NOT_FOUND", decodeError(t, rec).Status)

	rec = f.do(t, http.MethodGet, "/v1/courts/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeData[courtStatsDTO](t, rec)
	require.Equal(t, 8, stats.Locations)
	require.Equal(t, 0, stats.TotalPlayers)

	rec = f.do(t, http.MethodGet, "/v1/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "0 courts active", decodeData[statusDTO](t, rec).CourtsLabel)
}

func TestHandler_CheckInAndOut(t *testing.T) {
	f := newAPIFixture(t, false)

	rec := f.do(t, http.MethodPost, "/v1/checkins", `{"court_id":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/v1/checkins?wait=maybe", `{"court_id":2}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/v1/checkins?wait=true", `{"court_id":2,"player_name":"Maya","duration":"2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeData[checkInResultDTO](t, rec)
	require.Equal(t, remoteConfirmed, result.Remote)
	require.True(t, result.Session.CheckedIn)
	require.Equal(t, 2, result.Session.CourtID)
	require.NotEmpty(t, result.Session.RecordID)

	rec = f.do(t, http.MethodGet, "/v1/occupancy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, decodeData[struct {
		Counts map[string]int `json:"counts"`
	}](t, rec).Counts["2"])

	rec = f.do(t, http.MethodGet, "/v1/courts/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, decodeData[courtDTO](t, rec).CheckedIn)

	rec = f.do(t, http.MethodDelete, "/v1/checkins/current?wait=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	result = decodeData[checkInResultDTO](t, rec)
	require.False(t, result.Session.CheckedIn)

	rec = f.do(t, http.MethodPost, "/v1/occupancy/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, decodeData[struct {
		Counts map[string]int `json:"counts"`
	}](t, rec).Counts["2"])
}

func TestHandler_BroadcastLifecycle(t *testing.T) {
	f := newAPIFixture(t, false)

	rec := f.do(t, http.MethodPost, "/v1/broadcasts", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/v1/broadcasts", `{"message":"run","player_name":"Jo","players_needed":"9"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/v1/broadcasts", `{"message":"need 2 for full court","player_name":"Jo","players_needed":"2"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeData[broadcastDTO](t, rec)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Unknown Court", created.CourtName)
	require.Equal(t, "2", created.PlayersNeeded)

	rec = f.do(t, http.MethodPost, "/v1/broadcasts", `{"message":"6+ for a late run","player_name":"Jo","court_name":"Lincoln Park","players_needed":"6+"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	typed := decodeData[broadcastDTO](t, rec)
	require.Equal(t, "Lincoln Park", typed.CourtName)
	require.Equal(t, "6+", typed.PlayersNeeded)
	rec = f.do(t, http.MethodPost, "/v1/broadcasts/"+typed.ID+"/dismiss", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "now", created.Age)

	rec = f.do(t, http.MethodGet, "/v1/broadcasts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeData[[]broadcastDTO](t, rec), 1)

	rec = f.do(t, http.MethodPost, "/v1/broadcasts/"+created.ID+"/dismiss", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/broadcasts", "")
	require.Empty(t, decodeData[[]broadcastDTO](t, rec))
}

func TestHandler_ChatFlow(t *testing.T) {
	f := newAPIFixture(t, false)

	rec := f.do(t, http.MethodGet, "/v1/chat", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, decodeData[chatDTO](t, rec).Active)

	rec = f.do(t, http.MethodPut, "/v1/session/name", `{"name":"Maya"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/v1/chat/messages", `{"message":"anyone at Lincoln?"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "FAILED_PRECONDITION", decodeError(t, rec).Status)

	rec = f.do(t, http.MethodPut, "/v1/chat/scope", `{"mode":"city"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPut, "/v1/chat/scope", `{"mode":"global"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeData[chatDTO](t, rec)
	require.True(t, view.Active)
	require.Equal(t, "global", view.Scope.Mode)

	rec = f.do(t, http.MethodPost, "/v1/chat/messages", `{"message":"anyone at Lincoln?"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	sent := decodeData[chatMessageDTO](t, rec)
	require.Equal(t, "Maya", sent.PlayerName)
	require.NotEmpty(t, sent.Color)

	rec = f.do(t, http.MethodPost, "/v1/chat/panel", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/v1/chat/panel", `{"open":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeData[chatDTO](t, rec)
	require.Zero(t, view.Unread)
	require.Len(t, view.Messages, 1)
}

func TestHandler_Ticker(t *testing.T) {
	disabled := newAPIFixture(t, false)
	rec := disabled.do(t, http.MethodGet, "/v1/ticker", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeData[tickerDTO](t, rec)
	require.False(t, view.Enabled)
	require.Empty(t, view.Games)

	enabled := newAPIFixture(t, true)
	rec = enabled.do(t, http.MethodGet, "/v1/ticker", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeData[tickerDTO](t, rec)
	require.True(t, view.Enabled)
	require.NotNil(t, view.UpdatedAt)
	require.Len(t, view.Games, 1)
	require.Equal(t, "Q3 4:12", view.Games[0].StatusLabel)
}

func TestRouter_RecoversPanics(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	handler := recoverPanic(logging.NewNop(), mux)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
