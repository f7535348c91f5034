package pglisten

import (
	"context"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/lib/pq"
	"github.com/riskibarqy/courtside/internal/domain/realtime"
	"github.com/riskibarqy/courtside/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/courtside/internal/platform/logging"
)

const (
	DefaultChannel              = "courtside_changes"
	defaultMinReconnectInterval = 10 * time.Second
	defaultMaxReconnectInterval = time.Minute
	defaultPingInterval         = 90 * time.Second
)

var ErrClosed = crerr.New("pglisten: subscriber closed")

type Config struct {
	DSN                  string
	Channel              string
	MinReconnectInterval time.Duration
	MaxReconnectInterval time.Duration
	PingInterval         time.Duration
}

func (c Config) normalize() Config {
	if c.Channel == "" {
		c.Channel = DefaultChannel
	}
	if c.MinReconnectInterval <= 0 {
		c.MinReconnectInterval = defaultMinReconnectInterval
	}
	if c.MaxReconnectInterval < c.MinReconnectInterval {
		c.MaxReconnectInterval = defaultMaxReconnectInterval
	}
	if c.PingInterval <= 0 {
		c.PingInterval = defaultPingInterval
	}
	return c
}

// notificationSource is the part of *pq.Listener the subscriber drives.
type notificationSource interface {
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// Subscriber turns NOTIFY payloads published by the change trigger into change
// events. One LISTEN connection serves every collection.
type Subscriber struct {
	source notificationSource
	hub    *memory.Hub
	clock  clockwork.Clock
	ping   time.Duration
	logger *logging.Logger

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// Open connects a pq.Listener to cfg.Channel and starts delivering notifications.
func Open(cfg Config, logger *logging.Logger) (*Subscriber, error) {
	if logger == nil {
		logger = logging.Default()
	}
	cfg = cfg.normalize()
	if cfg.DSN == "" {
		return nil, crerr.New("pglisten: database url is required")
	}

	logger = logger.With("component", "pglisten", "channel", cfg.Channel)
	listener := pq.NewListener(cfg.DSN, cfg.MinReconnectInterval, cfg.MaxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			logger.Info("listener connected")
		case pq.ListenerEventDisconnected:
			logger.Warn("listener disconnected", "error", err)
		case pq.ListenerEventReconnected:
			logger.Info("listener reconnected")
		case pq.ListenerEventConnectionAttemptFailed:
			logger.Warn("listener connection attempt failed", "error", err)
		}
	})
	if err := listener.Listen(cfg.Channel); err != nil {
		_ = listener.Close()
		return nil, crerr.Wrapf(err, "listen on channel %q", cfg.Channel)
	}

	return newSubscriber(listener, clockwork.NewRealClock(), cfg.PingInterval, logger), nil
}

func newSubscriber(source notificationSource, clock clockwork.Clock, ping time.Duration, logger *logging.Logger) *Subscriber {
	s := &Subscriber{
		source: source,
		hub:    memory.NewHub(),
		clock:  clock,
		ping:   ping,
		logger: logger,
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

func (s *Subscriber) Subscribe(ctx context.Context, collection string, handler realtime.Handler) (realtime.Subscription, error) {
	select {
	case <-s.done:
		return nil, ErrClosed
	default:
	}
	return s.hub.Subscribe(ctx, collection, handler)
}

func (s *Subscriber) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
		if closeErr := s.source.Close(); closeErr != nil {
			err = crerr.Wrap(closeErr, "close listener")
		}
	})
	return err
}

func (s *Subscriber) run() {
	defer s.wg.Done()

	ping := s.clock.NewTicker(s.ping)
	defer ping.Stop()

	notifications := s.source.NotificationChannel()
	for {
		select {
		case <-s.done:
			return
		case n, ok := <-notifications:
			if !ok {
				s.logger.Warn("listener notification channel closed")
				return
			}
			if n == nil {
				// pq delivers nil after re-establishing the connection.
				s.resync()
				continue
			}
			s.dispatch(n.Extra)
		case <-ping.Chan():
			if err := s.source.Ping(); err != nil {
				s.logger.Warn("ping listener failed", "error", err)
			}
		}
	}
}

func (s *Subscriber) dispatch(payload string) {
	event, err := realtime.DecodeEnvelope([]byte(payload))
	if err != nil {
		s.logger.Warn("drop change notification", "error", err)
		return
	}
	s.hub.Publish(event)
}

func (s *Subscriber) resync() {
	for _, collection := range realtime.Collections {
		s.hub.Publish(realtime.ChangeEvent{Operation: realtime.OperationResync, Collection: collection})
	}
}
