package usecase

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/courtside/internal/domain/checkin"
	"github.com/riskibarqy/courtside/internal/domain/court"
	"github.com/riskibarqy/courtside/internal/infrastructure/localstore"
	"github.com/riskibarqy/courtside/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/courtside/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

func TestCourtService_JoinsOccupancyAndBroadcasts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	hub := memory.NewHub()
	logger := logging.NewNop()
	catalog := memory.NewCourtCatalog(memory.SeedCourts())
	checkIns := memory.NewCheckInRepository(hub, clock, nil)
	session := LoadSessionStore(localstore.NewMemoryStore(), logger)

	occupancy := NewOccupancyService(checkIns, hub, clock, OccupancyConfig{}, logger)
	broadcasts := NewBroadcastService(memory.NewBroadcastRepository(hub, clock, nil), hub, catalog, session, clock, BroadcastConfig{}, logger)
	service := NewCourtService(catalog, occupancy, broadcasts, logger)
	require.NoError(t, occupancy.Activate(ctx, OccupancyScope{}))
	require.NoError(t, broadcasts.Activate(ctx))

	for i := 0; i < 8; i++ {
		_, err := checkIns.Create(ctx, checkin.NewCheckIn{CourtID: 5})
		require.NoError(t, err)
	}
	_, err := checkIns.Create(ctx, checkin.NewCheckIn{CourtID: 1})
	require.NoError(t, err)

	require.NoError(t, session.BeginCheckIn(3, clock.Now()))
	_, err = broadcasts.Publish(ctx, PublishBroadcastInput{Message: "need 4", PlayerName: "Q"})
	require.NoError(t, err)

	item, err := service.Get(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, 8, item.CheckedIn)
	require.Equal(t, 80, item.FillPercent())
	require.Equal(t, court.StatusPacked, item.Status())
	require.Equal(t, 2, item.SpotsRemaining())

	needPlayers, err := service.List(ctx, court.Query{Filter: court.FilterNeedPlayers, Sort: court.SortName})
	require.NoError(t, err)
	names := make([]string, 0, len(needPlayers))
	for _, c := range needPlayers {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"Hamilton Park", "Van Vorst Park"}, names)

	active, err := service.List(ctx, court.Query{Filter: court.FilterActive})
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, 5, active[0].ID)

	summary, err := service.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, "2 courts active", summary.CourtsLabel())
	require.Equal(t, "9 players out", summary.PlayersLabel())

	stats, err := service.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 9, stats.TotalPlayers)
	require.Equal(t, 8, stats.Locations)
	require.Equal(t, 11, stats.TotalCourts)

	_, err = service.Get(ctx, 404)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = service.Get(ctx, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}
