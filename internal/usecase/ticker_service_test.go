package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/courtside/internal/domain/ticker"
	"github.com/riskibarqy/courtside/internal/platform/cache"
	"github.com/riskibarqy/courtside/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

type stubScoreboards struct {
	mu    sync.Mutex
	games map[ticker.League][]ticker.Game
	errs  map[ticker.League]error
	calls atomic.Int32
}

func (s *stubScoreboards) Scoreboard(_ context.Context, league ticker.League) ([]ticker.Game, error) {
	s.calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs[league]; err != nil {
		return nil, err
	}
	return s.games[league], nil
}

func (s *stubScoreboards) setErr(league ticker.League, err error) {
	s.mu.Lock()
	s.errs[league] = err
	s.mu.Unlock()
}

func TestTickerService_PollToleratesOneLeagueFailing(t *testing.T) {
	t.Parallel()

	provider := &stubScoreboards{
		games: map[ticker.League][]ticker.Game{
			ticker.LeagueNBA:   {{ID: "nba-1", League: ticker.LeagueNBA, State: ticker.StateLive}},
			ticker.LeagueNCAAB: {{ID: "cbb-1", League: ticker.LeagueNCAAB, State: ticker.StateFinal}},
		},
		errs: map[ticker.League]error{ticker.LeagueNCAAB: errors.New("502")},
	}
	clock := clockwork.NewFakeClock()
	service := NewTickerService(provider, nil, clock, time.Minute, logging.NewNop())

	require.NoError(t, service.Poll(context.Background()))
	games, _ := service.Games()
	require.Len(t, games, 1)
	require.Equal(t, "nba-1", games[0].ID)

	provider.setErr(ticker.LeagueNBA, errors.New("timeout"))
	clock.Advance(time.Minute)
	err := service.Poll(context.Background())
	require.ErrorIs(t, err, ErrDependencyUnavailable)
	games, _ = service.Games()
	require.Len(t, games, 1, "previous ticker is kept when every league fails")
}

func TestTickerService_RunPollsOnInterval(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	provider := &stubScoreboards{
		games: map[ticker.League][]ticker.Game{},
		errs:  map[ticker.League]error{},
	}
	service := NewTickerService(provider, cache.NewStore[[]ticker.Game](30*time.Second, cache.WithClock(clock)), clock, time.Minute, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		service.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return provider.calls.Load() == 2
	}, time.Second, time.Millisecond)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(time.Minute)
	require.Eventually(t, func() bool {
		return provider.calls.Load() == 4
	}, time.Second, time.Millisecond)

	cancel()
	<-done
}
