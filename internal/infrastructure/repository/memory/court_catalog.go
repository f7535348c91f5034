package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/courtside/internal/domain/court"
)

type CourtCatalog struct {
	mu     sync.RWMutex
	items  map[int]court.Court
	orders []int
}

func NewCourtCatalog(courts []court.Court) *CourtCatalog {
	items := make(map[int]court.Court, len(courts))
	orders := make([]int, 0, len(courts))

	for _, c := range courts {
		if _, dup := items[c.ID]; !dup {
			orders = append(orders, c.ID)
		}
		items[c.ID] = c
	}

	return &CourtCatalog{
		items:  items,
		orders: orders,
	}
}

func (r *CourtCatalog) List(_ context.Context) ([]court.Court, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]court.Court, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *CourtCatalog) GetByID(_ context.Context, courtID int) (court.Court, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[courtID]
	if !ok {
		return court.Court{}, false, nil
	}

	return c, true, nil
}
