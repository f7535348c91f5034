package memory

import (
	"context"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/courtside/internal/domain/realtime"
)

// Hub is an in-process change feed. Handlers run synchronously in the publisher's goroutine.
type Hub struct {
	mu       sync.RWMutex
	next     uint64
	handlers map[string]map[uint64]realtime.Handler
}

func NewHub() *Hub {
	return &Hub{
		handlers: make(map[string]map[uint64]realtime.Handler),
	}
}

func (h *Hub) Subscribe(_ context.Context, collection string, handler realtime.Handler) (realtime.Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.next++
	id := h.next
	if h.handlers[collection] == nil {
		h.handlers[collection] = make(map[uint64]realtime.Handler)
	}
	h.handlers[collection][id] = handler

	return &hubSubscription{hub: h, collection: collection, id: id}, nil
}

func (h *Hub) Publish(event realtime.ChangeEvent) {
	h.mu.RLock()
	handlers := make([]realtime.Handler, 0, len(h.handlers[event.Collection]))
	for _, handler := range h.handlers[event.Collection] {
		handlers = append(handlers, handler)
	}
	h.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// PublishRecord encodes record as the event payload and publishes it.
func (h *Hub) PublishRecord(op realtime.Operation, collection string, record any) error {
	if h == nil {
		return nil
	}
	payload, err := sonic.Marshal(record)
	if err != nil {
		return err
	}
	h.Publish(realtime.ChangeEvent{
		Operation:  op,
		Collection: collection,
		Record:     payload,
	})
	return nil
}

// Subscribers returns how many handlers follow collection.
func (h *Hub) Subscribers(collection string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.handlers[collection])
}

type hubSubscription struct {
	hub        *Hub
	collection string
	id         uint64
	once       sync.Once
}

func (s *hubSubscription) Close() error {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.handlers[s.collection], s.id)
		s.hub.mu.Unlock()
	})
	return nil
}
