package chat

import "context"

type Repository interface {
	// ListRecent returns the newest limit messages of scope in ascending creation order.
	ListRecent(ctx context.Context, scope Scope, limit int) ([]Message, error)
	Create(ctx context.Context, input NewMessage) (Message, error)
}
