package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/courtside/internal/domain/court"
	"github.com/riskibarqy/courtside/internal/platform/logging"
)

// CourtService joins the static catalog with live occupancy and broadcasts.
type CourtService struct {
	catalog    court.Catalog
	occupancy  *OccupancyService
	broadcasts *BroadcastService
	logger     *logging.Logger
}

func NewCourtService(catalog court.Catalog, occupancy *OccupancyService, broadcasts *BroadcastService, logger *logging.Logger) *CourtService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CourtService{
		catalog:    catalog,
		occupancy:  occupancy,
		broadcasts: broadcasts,
		logger:     logger,
	}
}

func (s *CourtService) List(ctx context.Context, query court.Query) ([]court.Live, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CourtService.List")
	defer span.End()

	items, err := s.live(ctx)
	if err != nil {
		return nil, err
	}
	return query.Apply(items), nil
}

func (s *CourtService) Get(ctx context.Context, courtID int) (court.Live, error) {
	if courtID <= 0 {
		return court.Live{}, fmt.Errorf("%w: court id is required", ErrInvalidInput)
	}
	items, err := s.live(ctx)
	if err != nil {
		return court.Live{}, err
	}
	for _, item := range items {
		if item.ID == courtID {
			return item, nil
		}
	}
	return court.Live{}, fmt.Errorf("%w: court=%d", ErrNotFound, courtID)
}

func (s *CourtService) Stats(ctx context.Context) (court.Stats, error) {
	items, err := s.live(ctx)
	if err != nil {
		return court.Stats{}, err
	}
	return court.ComputeStats(items), nil
}

func (s *CourtService) Summary(ctx context.Context) (court.Summary, error) {
	items, err := s.live(ctx)
	if err != nil {
		return court.Summary{}, err
	}
	return court.Summarize(items), nil
}

func (s *CourtService) live(ctx context.Context) ([]court.Live, error) {
	courts, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courts: %w", err)
	}

	counts := s.occupancy.Counts()
	broadcasting := s.broadcasts.CourtsBroadcasting()

	out := make([]court.Live, 0, len(courts))
	for _, item := range courts {
		out = append(out, court.Live{
			Court:        item,
			CheckedIn:    counts[item.ID],
			Broadcasting: broadcasting[item.ID],
		})
	}
	return out, nil
}
