package court

import "context"

// Catalog serves the static court list.
type Catalog interface {
	List(ctx context.Context) ([]Court, error)
	GetByID(ctx context.Context, id int) (Court, bool, error)
}
