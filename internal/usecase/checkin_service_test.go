package usecase

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/courtside/internal/domain/checkin"
	"github.com/riskibarqy/courtside/internal/infrastructure/localstore"
	"github.com/riskibarqy/courtside/internal/infrastructure/repository/memory"
	checkinmock "github.com/riskibarqy/courtside/internal/mocks/domain/checkin"
	"github.com/riskibarqy/courtside/internal/platform/logging"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testCourtID = 2

// gatedCheckInRepository holds Create until gate is opened. With after set the
// record is stored first and the reply is held instead.
type gatedCheckInRepository struct {
	*memory.CheckInRepository
	gate  chan struct{}
	after chan struct{}
	err   error

	mu      sync.Mutex
	created []string
}

func (r *gatedCheckInRepository) Create(ctx context.Context, input checkin.NewCheckIn) (checkin.CheckIn, error) {
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return checkin.CheckIn{}, ctx.Err()
		}
	}
	if r.err != nil {
		return checkin.CheckIn{}, r.err
	}
	item, err := r.CheckInRepository.Create(ctx, input)
	if err == nil {
		r.mu.Lock()
		r.created = append(r.created, item.ID)
		r.mu.Unlock()
	}
	if err == nil && r.after != nil {
		select {
		case <-r.after:
		case <-ctx.Done():
			return checkin.CheckIn{}, ctx.Err()
		}
	}
	return item, err
}

func (r *gatedCheckInRepository) lastCreated() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.created) == 0 {
		return ""
	}
	return r.created[len(r.created)-1]
}

type checkInFixture struct {
	clock     *clockwork.FakeClock
	hub       *memory.Hub
	remote    *memory.CheckInRepository
	session   *SessionStore
	occupancy *OccupancyService
	service   *CheckInService
}

func newCheckInFixture(t *testing.T, repo func(*memory.CheckInRepository) checkin.Repository) *checkInFixture {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 7, 4, 17, 0, 0, 0, time.UTC))
	hub := memory.NewHub()
	remote := memory.NewCheckInRepository(hub, clock, nil)
	writer := checkin.Repository(remote)
	if repo != nil {
		writer = repo(remote)
	}

	pool, err := ants.NewPool(4)
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	logger := logging.NewNop()
	catalog := memory.NewCourtCatalog(memory.SeedCourts())
	session := LoadSessionStore(localstore.NewMemoryStore(), logger)
	occupancy := NewOccupancyService(remote, hub, clock, OccupancyConfig{}, logger)
	service := NewCheckInService(writer, catalog, session, occupancy, pool, clock, time.Second, logger)

	return &checkInFixture{
		clock:     clock,
		hub:       hub,
		remote:    remote,
		session:   session,
		occupancy: occupancy,
		service:   service,
	}
}

func (f *checkInFixture) seed(t *testing.T, courtID, players int) {
	t.Helper()
	for i := 0; i < players; i++ {
		_, err := f.remote.Create(context.Background(), checkin.NewCheckIn{CourtID: courtID, PlayerName: "regular", Duration: "2"})
		require.NoError(t, err)
	}
}

func TestCheckInService_CheckInCountsBeforeRemoteResponds(t *testing.T) {
	t.Parallel()

	var gated *gatedCheckInRepository
	f := newCheckInFixture(t, func(remote *memory.CheckInRepository) checkin.Repository {
		gated = &gatedCheckInRepository{CheckInRepository: remote, gate: make(chan struct{})}
		return gated
	})
	f.seed(t, testCourtID, 3)
	require.NoError(t, f.occupancy.Activate(context.Background(), OccupancyScope{}))
	require.Equal(t, 3, f.occupancy.Count(testCourtID))

	pending, err := f.service.CheckIn(context.Background(), CheckInInput{CourtID: testCourtID, Duration: "2", PlayerName: "Maya"})
	require.NoError(t, err)

	require.Equal(t, 4, f.occupancy.Count(testCourtID))
	current := f.session.Snapshot()
	require.Equal(t, testCourtID, current.CourtID)
	require.NotNil(t, current.CheckedInAt)
	select {
	case <-pending.Done():
		t.Fatalf("expected remote write to be pending")
	default:
	}

	close(gated.gate)
	require.NoError(t, pending.Wait(context.Background()))
	require.Equal(t, 4, f.occupancy.Count(testCourtID))
	require.Equal(t, gated.lastCreated(), f.session.Snapshot().RecordID)
}

func TestCheckInService_CheckOutBeforeInsertResolvesDropsOrphan(t *testing.T) {
	t.Parallel()

	var gated *gatedCheckInRepository
	f := newCheckInFixture(t, func(remote *memory.CheckInRepository) checkin.Repository {
		gated = &gatedCheckInRepository{CheckInRepository: remote, gate: make(chan struct{})}
		return gated
	})
	require.NoError(t, f.occupancy.Activate(context.Background(), OccupancyScope{}))

	checkInPending, err := f.service.CheckIn(context.Background(), CheckInInput{CourtID: testCourtID})
	require.NoError(t, err)
	checkOutPending, err := f.service.CheckOut(context.Background())
	require.NoError(t, err)
	require.NoError(t, checkOutPending.Wait(context.Background()))

	require.False(t, f.session.Snapshot().CheckedIn())
	require.Equal(t, 0, f.occupancy.Count(testCourtID))

	close(gated.gate)
	require.NoError(t, checkInPending.Wait(context.Background()))

	current := f.session.Snapshot()
	require.False(t, current.CheckedIn())
	require.Empty(t, current.RecordID)

	orphan, ok := f.remote.Get(gated.lastCreated())
	require.True(t, ok)
	require.False(t, orphan.IsActive)
	require.Equal(t, 0, f.occupancy.Count(testCourtID))
}

func TestCheckInService_FailedInsertKeepsLocalCheckIn(t *testing.T) {
	t.Parallel()

	repo := checkinmock.NewRepository(t)
	f := newCheckInFixture(t, func(*memory.CheckInRepository) checkin.Repository {
		return repo
	})

	repo.
		On("Create", mock.Anything, mock.MatchedBy(func(v checkin.NewCheckIn) bool {
			return v.CourtID == testCourtID && v.PlayerName == checkin.AnonymousPlayer && v.Duration == checkin.DefaultDuration
		})).
		Return(checkin.CheckIn{}, errors.New("insert rejected")).
		Once()

	pending, err := f.service.CheckIn(context.Background(), CheckInInput{CourtID: testCourtID, Duration: "9"})
	require.NoError(t, err)
	require.ErrorIs(t, pending.Wait(context.Background()), ErrDependencyUnavailable)

	current := f.session.Snapshot()
	require.True(t, current.CheckedIn())
	require.Empty(t, current.RecordID)
	require.Equal(t, 1, f.occupancy.Count(testCourtID))

	checkOut, err := f.service.CheckOut(context.Background())
	require.NoError(t, err)
	require.NoError(t, checkOut.Wait(context.Background()))
	require.False(t, f.session.Snapshot().CheckedIn())
	require.Equal(t, 0, f.occupancy.Count(testCourtID))
}

func TestCheckInService_AnonymousCheckInNextToAnotherAnonymous(t *testing.T) {
	t.Parallel()

	f := newCheckInFixture(t, func(remote *memory.CheckInRepository) checkin.Repository {
		return &gatedCheckInRepository{CheckInRepository: remote, err: errors.New("insert rejected")}
	})
	f.seed(t, testCourtID, 2)
	f.clock.Advance(30 * time.Second)
	_, err := f.remote.Create(context.Background(), checkin.NewCheckIn{CourtID: testCourtID, PlayerName: checkin.AnonymousPlayer})
	require.NoError(t, err)
	require.NoError(t, f.occupancy.Activate(context.Background(), OccupancyScope{}))
	require.Equal(t, 3, f.occupancy.Count(testCourtID))

	pending, err := f.service.CheckIn(context.Background(), CheckInInput{CourtID: testCourtID})
	require.NoError(t, err)
	require.Equal(t, 4, f.occupancy.Count(testCourtID))

	require.ErrorIs(t, pending.Wait(context.Background()), ErrDependencyUnavailable)
	require.Equal(t, 4, f.occupancy.Count(testCourtID))

	// Another anonymous player arriving later is counted alongside this client.
	_, err = f.remote.Create(context.Background(), checkin.NewCheckIn{CourtID: testCourtID, PlayerName: checkin.AnonymousPlayer})
	require.NoError(t, err)
	require.Equal(t, 5, f.occupancy.Count(testCourtID))

	checkOut, err := f.service.CheckOut(context.Background())
	require.NoError(t, err)
	require.NoError(t, checkOut.Wait(context.Background()))
	require.Equal(t, 4, f.occupancy.Count(testCourtID))
}

func TestCheckInService_CheckOutAfterEventBeforeInsertReply(t *testing.T) {
	t.Parallel()

	var gated *gatedCheckInRepository
	f := newCheckInFixture(t, func(remote *memory.CheckInRepository) checkin.Repository {
		gated = &gatedCheckInRepository{CheckInRepository: remote, after: make(chan struct{})}
		return gated
	})
	f.seed(t, testCourtID, 1)
	require.NoError(t, f.occupancy.Activate(context.Background(), OccupancyScope{}))

	checkInPending, err := f.service.CheckIn(context.Background(), CheckInInput{CourtID: testCourtID, PlayerName: "Jo"})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return f.occupancy.Feed().Len() == 2
	}, time.Second, time.Millisecond)
	require.Equal(t, 2, f.occupancy.Count(testCourtID))

	checkOutPending, err := f.service.CheckOut(context.Background())
	require.NoError(t, err)
	require.NoError(t, checkOutPending.Wait(context.Background()))
	require.Equal(t, 1, f.occupancy.Count(testCourtID))

	require.NoError(t, f.occupancy.Refresh(context.Background()))
	require.Equal(t, 1, f.occupancy.Count(testCourtID))

	close(gated.after)
	require.NoError(t, checkInPending.Wait(context.Background()))
	orphan, ok := f.remote.Get(gated.lastCreated())
	require.True(t, ok)
	require.False(t, orphan.IsActive)
	require.Equal(t, 1, f.occupancy.Count(testCourtID))
}

func TestCheckInService_SwitchingCourtsMovesPresence(t *testing.T) {
	t.Parallel()

	f := newCheckInFixture(t, nil)
	f.seed(t, 1, 2)
	require.NoError(t, f.occupancy.Activate(context.Background(), OccupancyScope{}))

	first, err := f.service.CheckIn(context.Background(), CheckInInput{CourtID: 1, PlayerName: "Sam"})
	require.NoError(t, err)
	require.NoError(t, first.Wait(context.Background()))
	firstID := f.session.Snapshot().RecordID
	require.NotEmpty(t, firstID)
	require.Equal(t, 3, f.occupancy.Count(1))

	f.clock.Advance(time.Minute)
	second, err := f.service.CheckIn(context.Background(), CheckInInput{CourtID: 5})
	require.NoError(t, err)
	require.Equal(t, 2, f.occupancy.Count(1))
	require.Equal(t, 1, f.occupancy.Count(5))
	require.NoError(t, second.Wait(context.Background()))

	previous, ok := f.remote.Get(firstID)
	require.True(t, ok)
	require.False(t, previous.IsActive)

	require.NoError(t, f.occupancy.Refresh(context.Background()))
	require.Equal(t, 2, f.occupancy.Count(1))
	require.Equal(t, 1, f.occupancy.Count(5))
}

func TestCheckInService_OccupancyNeverNegative(t *testing.T) {
	t.Parallel()

	f := newCheckInFixture(t, nil)
	f.seed(t, 3, 1)
	require.NoError(t, f.occupancy.Activate(context.Background(), OccupancyScope{}))

	rng := rand.New(rand.NewSource(7))
	courts := []int{1, 3, 5}
	for step := 0; step < 60; step++ {
		var (
			pending *Pending
			err     error
		)
		if rng.Intn(3) == 0 {
			pending, err = f.service.CheckOut(context.Background())
		} else {
			pending, err = f.service.CheckIn(context.Background(), CheckInInput{CourtID: courts[rng.Intn(len(courts))]})
		}
		require.NoError(t, err)
		if rng.Intn(2) == 0 {
			require.NoError(t, pending.Wait(context.Background()))
		}

		for courtID, count := range f.occupancy.Counts() {
			require.GreaterOrEqual(t, count, 0, "court %d at step %d", courtID, step)
		}
	}

	last, err := f.service.CheckOut(context.Background())
	require.NoError(t, err)
	require.NoError(t, last.Wait(context.Background()))
	require.Eventually(t, func() bool {
		counts := f.occupancy.Counts()
		return counts[1] == 0 && counts[3] == 1 && counts[5] == 0
	}, time.Second, time.Millisecond)
}

func TestCheckInService_CheckInRejectsUnknownCourt(t *testing.T) {
	t.Parallel()

	f := newCheckInFixture(t, nil)

	_, err := f.service.CheckIn(context.Background(), CheckInInput{CourtID: 0})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.service.CheckIn(context.Background(), CheckInInput{CourtID: 404})
	require.ErrorIs(t, err, ErrNotFound)
	require.False(t, f.session.Snapshot().CheckedIn())
}
