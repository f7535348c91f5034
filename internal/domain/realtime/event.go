package realtime

import "context"

// Operation is the kind of row-level change carried by a ChangeEvent.
type Operation string

const (
	OperationInsert Operation = "INSERT"
	OperationUpdate Operation = "UPDATE"
	OperationDelete Operation = "DELETE"
	// OperationResync is emitted by a transport after it reconnected and may have
	// dropped events. Consumers should reload their snapshot.
	OperationResync Operation = "RESYNC"
)

const (
	CollectionCheckIns     = "check_ins"
	CollectionBroadcasts   = "broadcasts"
	CollectionChatMessages = "chat_messages"
)

// Collections lists every collection a transport may carry.
var Collections = []string{CollectionCheckIns, CollectionBroadcasts, CollectionChatMessages}

// ChangeEvent is a single change on a named collection. Record is the JSON encoded
// row after the change (the old row for deletes) and is empty for resync events.
type ChangeEvent struct {
	Operation  Operation
	Collection string
	Record     []byte
}

type Handler func(ChangeEvent)

type Subscription interface {
	Close() error
}

// Subscriber delivers every change of a collection to handler until the returned
// subscription is closed. Filtering happens in the consumer.
type Subscriber interface {
	Subscribe(ctx context.Context, collection string, handler Handler) (Subscription, error)
}
