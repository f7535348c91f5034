package pglisten

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/lib/pq"
	"github.com/riskibarqy/courtside/internal/domain/realtime"
	"github.com/riskibarqy/courtside/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	notifications chan *pq.Notification
	pings         atomic.Int32
	closed        atomic.Bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{notifications: make(chan *pq.Notification)}
}

func (f *fakeSource) NotificationChannel() <-chan *pq.Notification {
	return f.notifications
}

func (f *fakeSource) Ping() error {
	f.pings.Add(1)
	return nil
}

func (f *fakeSource) Close() error {
	f.closed.Store(true)
	return nil
}

type eventLog struct {
	mu     sync.Mutex
	events []realtime.ChangeEvent
}

func (l *eventLog) handle(event realtime.ChangeEvent) {
	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()
}

func (l *eventLog) snapshot() []realtime.ChangeEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]realtime.ChangeEvent(nil), l.events...)
}

func TestSubscriber_DeliversNotificationsToCollection(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	s := newSubscriber(source, clockwork.NewFakeClock(), time.Minute, logging.NewNop())
	t.Cleanup(func() { _ = s.Close() })

	var checkIns, chats eventLog
	_, err := s.Subscribe(context.Background(), realtime.CollectionCheckIns, checkIns.handle)
	require.NoError(t, err)
	_, err = s.Subscribe(context.Background(), realtime.CollectionChatMessages, chats.handle)
	require.NoError(t, err)

	source.notifications <- &pq.Notification{Channel: DefaultChannel, Extra: `{"operation":"INSERT","collection":"check_ins","record":{"id":"c1","court_id":2}}`}
	source.notifications <- &pq.Notification{Channel: DefaultChannel, Extra: `not json`}
	source.notifications <- &pq.Notification{Channel: DefaultChannel, Extra: `{"operation":"UPDATE","collection":"check_ins","record":{"id":"c1","is_active":false}}`}

	require.Eventually(t, func() bool {
		return len(checkIns.snapshot()) == 2
	}, time.Second, time.Millisecond)
	events := checkIns.snapshot()
	require.Equal(t, realtime.OperationInsert, events[0].Operation)
	require.JSONEq(t, `{"id":"c1","court_id":2}`, string(events[0].Record))
	require.Equal(t, realtime.OperationUpdate, events[1].Operation)
	require.Empty(t, chats.snapshot())
}

func TestSubscriber_ReconnectEmitsResync(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	s := newSubscriber(source, clockwork.NewFakeClock(), time.Minute, logging.NewNop())
	t.Cleanup(func() { _ = s.Close() })

	var broadcasts eventLog
	_, err := s.Subscribe(context.Background(), realtime.CollectionBroadcasts, broadcasts.handle)
	require.NoError(t, err)

	source.notifications <- nil

	require.Eventually(t, func() bool {
		return len(broadcasts.snapshot()) == 1
	}, time.Second, time.Millisecond)
	require.Equal(t, realtime.OperationResync, broadcasts.snapshot()[0].Operation)
}

func TestSubscriber_PingsOnInterval(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	clock := clockwork.NewFakeClock()
	s := newSubscriber(source, clock, 90*time.Second, logging.NewNop())
	t.Cleanup(func() { _ = s.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(90 * time.Second)
	require.Eventually(t, func() bool {
		return source.pings.Load() == 1
	}, time.Second, time.Millisecond)
}

func TestSubscriber_CloseStopsDelivery(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	s := newSubscriber(source, clockwork.NewFakeClock(), time.Minute, logging.NewNop())

	sub, err := s.Subscribe(context.Background(), realtime.CollectionCheckIns, func(realtime.ChangeEvent) {})
	require.NoError(t, err)
	require.NoError(t, sub.Close())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	require.True(t, source.closed.Load())

	_, err = s.Subscribe(context.Background(), realtime.CollectionCheckIns, func(realtime.ChangeEvent) {})
	require.ErrorIs(t, err, ErrClosed)
}
