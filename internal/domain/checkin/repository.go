package checkin

import (
	"context"
	"time"
)

type ListActiveQuery struct {
	Since time.Time
	// CourtID narrows the result to one court when > 0.
	CourtID int
}

type Repository interface {
	ListActive(ctx context.Context, query ListActiveQuery) ([]CheckIn, error)
	Create(ctx context.Context, input NewCheckIn) (CheckIn, error)
	Close(ctx context.Context, id string, at time.Time) error
}
