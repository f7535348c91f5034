package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/courtside/internal/domain/checkin"
	"github.com/riskibarqy/courtside/internal/domain/court"
	"github.com/riskibarqy/courtside/internal/platform/logging"
)

const defaultWriteTimeout = 15 * time.Second

// TaskSubmitter runs remote writes off the caller's goroutine. *ants.Pool satisfies it.
type TaskSubmitter interface {
	Submit(task func()) error
}

type CheckInInput struct {
	CourtID    int
	Duration   string
	PlayerName string
}

// Pending is the outcome of a remote write started by the mutator.
type Pending struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func completedPending(err error) *Pending {
	p := newPending()
	p.finish(err)
	return p
}

func (p *Pending) finish(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Err returns the write error once Done is closed, nil before.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CheckInService applies check-in and check-out locally first, then writes the
// remote record through the worker pool. Remote results never roll back the
// local effect.
type CheckInService struct {
	repo         checkin.Repository
	catalog      court.Catalog
	session      *SessionStore
	occupancy    *OccupancyService
	pool         TaskSubmitter
	clock        clockwork.Clock
	writeTimeout time.Duration
	logger       *logging.Logger

	mu      sync.Mutex
	attempt uint64
}

func NewCheckInService(
	repo checkin.Repository,
	catalog court.Catalog,
	session *SessionStore,
	occupancy *OccupancyService,
	pool TaskSubmitter,
	clock clockwork.Clock,
	writeTimeout time.Duration,
	logger *logging.Logger,
) *CheckInService {
	if logger == nil {
		logger = logging.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &CheckInService{
		repo:         repo,
		catalog:      catalog,
		session:      session,
		occupancy:    occupancy,
		pool:         pool,
		clock:        clock,
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// CheckIn moves this client to input.CourtID. When it returns the session and the
// occupancy counts already reflect the new court.
func (s *CheckInService) CheckIn(ctx context.Context, input CheckInInput) (*Pending, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CheckInService.CheckIn")
	defer span.End()

	if input.CourtID <= 0 {
		return nil, fmt.Errorf("%w: court id is required", ErrInvalidInput)
	}
	if _, ok, err := s.catalog.GetByID(ctx, input.CourtID); err != nil {
		return nil, fmt.Errorf("get court: %w", err)
	} else if !ok {
		return nil, fmt.Errorf("%w: court=%d", ErrNotFound, input.CourtID)
	}

	s.mu.Lock()
	current := s.session.Snapshot()
	if current.CheckedIn() {
		s.occupancy.Release(current.CourtID, current.RecordID)
	}

	now := s.clock.Now()
	s.attempt++
	token := s.attempt
	record := checkin.NewCheckIn{
		CourtID:     input.CourtID,
		PlayerName:  checkin.ResolvePlayerName(input.PlayerName, current.DisplayName()),
		Duration:    checkin.NormalizeDuration(input.Duration),
		CheckedInAt: now,
	}
	if err := s.session.BeginCheckIn(input.CourtID, now); err != nil {
		s.logger.WarnContext(ctx, "persist check-in failed", "court_id", input.CourtID, "error", err)
	}
	s.occupancy.MarkPresent(input.CourtID, record.PlayerName, now)
	s.mu.Unlock()

	previousID := current.RecordID
	pending := newPending()
	err := s.pool.Submit(func() {
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
		defer cancel()
		pending.finish(s.writeCheckIn(writeCtx, token, record, previousID))
	})
	if err != nil {
		s.logger.WarnContext(ctx, "submit check-in write failed", "court_id", input.CourtID, "error", err)
		pending.finish(fmt.Errorf("%w: submit check-in write: %v", ErrDependencyUnavailable, err))
	}

	return pending, nil
}

// CheckOut clears the active court locally and closes the remote record when its
// ID is known. Without an active court it does nothing.
func (s *CheckInService) CheckOut(ctx context.Context) (*Pending, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CheckInService.CheckOut")
	defer span.End()

	s.mu.Lock()
	current := s.session.Snapshot()
	if !current.CheckedIn() {
		s.mu.Unlock()
		return completedPending(nil), nil
	}

	s.attempt++
	now := s.clock.Now()
	s.occupancy.Release(current.CourtID, current.RecordID)
	if err := s.session.ClearCheckIn(); err != nil {
		s.logger.WarnContext(ctx, "persist check-out failed", "court_id", current.CourtID, "error", err)
	}
	s.mu.Unlock()

	recordID := current.RecordID
	if recordID == "" {
		return completedPending(nil), nil
	}

	pending := newPending()
	err := s.pool.Submit(func() {
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
		defer cancel()
		if err := s.repo.Close(writeCtx, recordID, now); err != nil {
			s.logger.WarnContext(writeCtx, "close check-in failed", "record_id", recordID, "error", err)
			pending.finish(fmt.Errorf("%w: close check-in: %v", ErrDependencyUnavailable, err))
			return
		}
		pending.finish(nil)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "submit check-out write failed", "record_id", recordID, "error", err)
		pending.finish(fmt.Errorf("%w: submit check-out write: %v", ErrDependencyUnavailable, err))
	}

	return pending, nil
}

func (s *CheckInService) writeCheckIn(ctx context.Context, token uint64, record checkin.NewCheckIn, previousID string) error {
	if previousID != "" {
		if err := s.repo.Close(ctx, previousID, record.CheckedInAt); err != nil {
			s.logger.WarnContext(ctx, "close previous check-in failed", "record_id", previousID, "error", err)
		}
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		s.logger.WarnContext(ctx, "create check-in failed", "court_id", record.CourtID, "error", err)
		s.mu.Lock()
		if s.attempt == token {
			s.occupancy.MarkUnconfirmed(record.CourtID)
		}
		s.mu.Unlock()
		return fmt.Errorf("%w: create check-in: %v", ErrDependencyUnavailable, err)
	}

	s.mu.Lock()
	current := s.attempt == token
	if current {
		if err := s.session.SetRecordID(created.ID); err != nil {
			s.logger.WarnContext(ctx, "persist check-in record id failed", "record_id", created.ID, "error", err)
		}
		s.occupancy.AttachRecord(record.CourtID, created.ID)
	}
	s.mu.Unlock()

	if current {
		return nil
	}

	// Superseded by a later check-in or check-out: the record has no owner.
	s.logger.InfoContext(ctx, "closing superseded check-in", "record_id", created.ID, "court_id", record.CourtID)
	s.occupancy.Forget(created.ID)
	if err := s.repo.Close(ctx, created.ID, s.clock.Now()); err != nil {
		s.logger.WarnContext(ctx, "close superseded check-in failed", "record_id", created.ID, "error", err)
	}
	return nil
}
