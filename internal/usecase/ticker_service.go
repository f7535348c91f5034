package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/courtside/internal/domain/ticker"
	"github.com/riskibarqy/courtside/internal/platform/cache"
	"github.com/riskibarqy/courtside/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

const defaultTickerInterval = 60 * time.Second

// TickerService polls pro and college scoreboards and keeps the arranged ticker.
type TickerService struct {
	provider ticker.Provider
	cache    *cache.Store[[]ticker.Game]
	clock    clockwork.Clock
	interval time.Duration
	logger   *logging.Logger

	mu        sync.RWMutex
	games     []ticker.Game
	updatedAt time.Time
}

func NewTickerService(
	provider ticker.Provider,
	store *cache.Store[[]ticker.Game],
	clock clockwork.Clock,
	interval time.Duration,
	logger *logging.Logger,
) *TickerService {
	if logger == nil {
		logger = logging.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = defaultTickerInterval
	}
	if store == nil {
		store = cache.NewStore[[]ticker.Game](interval/2, cache.WithClock(clock))
	}
	return &TickerService{
		provider: provider,
		cache:    store,
		clock:    clock,
		interval: interval,
		logger:   logger,
	}
}

// Games returns the last arranged ticker and when it was built.
func (s *TickerService) Games() ([]ticker.Game, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ticker.Game, len(s.games))
	copy(out, s.games)
	return out, s.updatedAt
}

// Poll fetches both leagues concurrently. A failing league contributes no games;
// when both fail the previous ticker is kept.
func (s *TickerService) Poll(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TickerService.Poll")
	defer span.End()

	var (
		wg               conc.WaitGroup
		nba, ncaab       []ticker.Game
		nbaErr, ncaabErr error
	)
	wg.Go(func() {
		nba, nbaErr = s.scoreboard(ctx, ticker.LeagueNBA)
	})
	wg.Go(func() {
		ncaab, ncaabErr = s.scoreboard(ctx, ticker.LeagueNCAAB)
	})
	wg.Wait()

	if nbaErr != nil && ncaabErr != nil {
		return fmt.Errorf("%w: fetch scoreboards: %w", ErrDependencyUnavailable, errors.Join(nbaErr, ncaabErr))
	}
	if nbaErr != nil {
		s.logger.WarnContext(ctx, "fetch scoreboard failed", "league", string(ticker.LeagueNBA), "error", nbaErr)
	}
	if ncaabErr != nil {
		s.logger.WarnContext(ctx, "fetch scoreboard failed", "league", string(ticker.LeagueNCAAB), "error", ncaabErr)
	}

	games := ticker.Arrange(nba, ncaab)
	s.mu.Lock()
	s.games = games
	s.updatedAt = s.clock.Now()
	s.mu.Unlock()
	return nil
}

// Run polls immediately and then on every interval until ctx is done.
func (s *TickerService) Run(ctx context.Context) {
	if err := s.Poll(ctx); err != nil {
		s.logger.WarnContext(ctx, "poll ticker failed", "error", err)
	}

	tick := s.clock.NewTicker(s.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.Chan():
			if err := s.Poll(ctx); err != nil {
				s.logger.WarnContext(ctx, "poll ticker failed", "error", err)
			}
		}
	}
}

func (s *TickerService) scoreboard(ctx context.Context, league ticker.League) ([]ticker.Game, error) {
	return s.cache.GetOrLoad(ctx, "scoreboard:"+string(league), func(ctx context.Context) ([]ticker.Game, error) {
		return s.provider.Scoreboard(ctx, league)
	})
}
