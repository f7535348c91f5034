package usecase

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/courtside/internal/domain/court"
	"github.com/riskibarqy/courtside/internal/domain/session"
	"github.com/riskibarqy/courtside/internal/platform/logging"
)

// SessionView is the session as shown to the presentation layer.
type SessionView struct {
	Name            *string
	NeedsOnboarding bool
	CourtID         int
	CourtName       string
	CheckedInAt     *time.Time
	RecordID        string
	Elapsed         time.Duration
	ElapsedLabel    string
}

type OnboardingService struct {
	session *SessionStore
	catalog court.Catalog
	clock   clockwork.Clock
	logger  *logging.Logger
}

func NewOnboardingService(session *SessionStore, catalog court.Catalog, clock clockwork.Clock, logger *logging.Logger) *OnboardingService {
	if logger == nil {
		logger = logging.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &OnboardingService{
		session: session,
		catalog: catalog,
		clock:   clock,
		logger:  logger,
	}
}

func (s *OnboardingService) Session(ctx context.Context) SessionView {
	current := s.session.Snapshot()
	view := SessionView{
		Name:            current.Name,
		NeedsOnboarding: current.NeedsOnboarding(),
		CourtID:         current.CourtID,
		CheckedInAt:     current.CheckedInAt,
		RecordID:        current.RecordID,
	}
	if !current.CheckedIn() {
		return view
	}

	if item, ok, err := s.catalog.GetByID(ctx, current.CourtID); err != nil {
		s.logger.WarnContext(ctx, "resolve checked-in court failed", "court_id", current.CourtID, "error", err)
	} else if ok {
		view.CourtName = item.Name
	}
	view.Elapsed = current.Elapsed(s.clock.Now())
	view.ElapsedLabel = session.FormatElapsed(view.Elapsed)
	return view
}

// SetName completes onboarding. An empty name skips it for good.
func (s *OnboardingService) SetName(ctx context.Context, name string) (SessionView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OnboardingService.SetName")
	defer span.End()

	if err := s.session.SetName(name); err != nil {
		s.logger.WarnContext(ctx, "persist player name failed", "error", err)
		return s.Session(ctx), err
	}
	return s.Session(ctx), nil
}
