package broadcast

import (
	"context"
	"time"
)

type Repository interface {
	ListActive(ctx context.Context, since time.Time) ([]Broadcast, error)
	Create(ctx context.Context, input NewBroadcast) (Broadcast, error)
}
