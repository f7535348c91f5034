package natsfeed

import (
	"context"
	"strings"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/nats-io/nats.go"
	"github.com/riskibarqy/courtside/internal/domain/realtime"
	"github.com/riskibarqy/courtside/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/courtside/internal/platform/logging"
)

const (
	DefaultSubjectPrefix = "courtside.changes"
	defaultReconnectWait = 2 * time.Second
)

var ErrClosed = crerr.New("natsfeed: subscriber closed")

type Config struct {
	URL           string
	SubjectPrefix string
	ClientName    string
	ReconnectWait time.Duration
}

// Subscriber follows change envelopes published on <prefix>.<collection>.
// One NATS subscription is opened per collection on first use.
type Subscriber struct {
	conn   *nats.Conn
	prefix string
	hub    *memory.Hub
	logger *logging.Logger

	mu     sync.Mutex
	subs   map[string]*nats.Subscription
	closed bool
}

func Connect(cfg Config, logger *logging.Logger) (*Subscriber, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, crerr.New("natsfeed: url is required")
	}
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = defaultReconnectWait
	}

	s := newSubscriber(cfg.SubjectPrefix, logger)
	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.ClientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				s.logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			s.logger.Info("nats reconnected", "url", conn.ConnectedUrl())
			s.resync()
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			s.logger.Warn("nats async error", "subject", subject, "error", err)
		}),
	)
	if err != nil {
		return nil, crerr.Wrapf(err, "connect nats %q", cfg.URL)
	}
	s.conn = conn
	return s, nil
}

func newSubscriber(prefix string, logger *logging.Logger) *Subscriber {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &Subscriber{
		prefix: prefix,
		hub:    memory.NewHub(),
		logger: logger.With("component", "natsfeed"),
		subs:   make(map[string]*nats.Subscription),
	}
}

// Subject is the NATS subject carrying changes of collection.
func (s *Subscriber) Subject(collection string) string {
	return s.prefix + "." + collection
}

func (s *Subscriber) Subscribe(ctx context.Context, collection string, handler realtime.Handler) (realtime.Subscription, error) {
	if err := s.ensure(collection); err != nil {
		return nil, err
	}
	return s.hub.Subscribe(ctx, collection, handler)
}

func (s *Subscriber) ensure(collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, ok := s.subs[collection]; ok {
		return nil
	}
	subject := s.Subject(collection)
	sub, err := s.conn.Subscribe(subject, s.handleMsg)
	if err != nil {
		return crerr.Wrapf(err, "subscribe %q", subject)
	}
	s.subs[collection] = sub
	return nil
}

func (s *Subscriber) handleMsg(msg *nats.Msg) {
	event, err := realtime.DecodeEnvelope(msg.Data)
	if err != nil {
		s.logger.Warn("drop change message", "subject", msg.Subject, "error", err)
		return
	}
	if want := s.Subject(event.Collection); msg.Subject != "" && msg.Subject != want {
		s.logger.Warn("drop change message on foreign subject", "subject", msg.Subject, "collection", event.Collection)
		return
	}
	s.hub.Publish(event)
}

func (s *Subscriber) resync() {
	for _, collection := range realtime.Collections {
		s.hub.Publish(realtime.ChangeEvent{Operation: realtime.OperationResync, Collection: collection})
	}
}

// Close unsubscribes and drains the connection.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	subs := s.subs
	s.subs = make(map[string]*nats.Subscription)
	s.mu.Unlock()

	var errs error
	for collection, sub := range subs {
		if err := sub.Unsubscribe(); err != nil {
			errs = crerr.CombineErrors(errs, crerr.Wrapf(err, "unsubscribe %s", collection))
		}
	}
	if s.conn != nil {
		if err := s.conn.Drain(); err != nil {
			errs = crerr.CombineErrors(errs, crerr.Wrap(err, "drain nats connection"))
		}
	}
	return errs
}
