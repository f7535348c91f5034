package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/courtside/external/espn"
	"github.com/riskibarqy/courtside/internal/config"
	"github.com/riskibarqy/courtside/internal/domain/broadcast"
	"github.com/riskibarqy/courtside/internal/domain/chat"
	"github.com/riskibarqy/courtside/internal/domain/checkin"
	"github.com/riskibarqy/courtside/internal/domain/realtime"
	"github.com/riskibarqy/courtside/internal/domain/ticker"
	"github.com/riskibarqy/courtside/internal/infrastructure/localstore"
	"github.com/riskibarqy/courtside/internal/infrastructure/realtime/natsfeed"
	"github.com/riskibarqy/courtside/internal/infrastructure/realtime/pglisten"
	"github.com/riskibarqy/courtside/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/courtside/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/courtside/internal/interfaces/httpapi"
	"github.com/riskibarqy/courtside/internal/platform/cache"
	idgen "github.com/riskibarqy/courtside/internal/platform/id"
	"github.com/riskibarqy/courtside/internal/platform/logging"
	"github.com/riskibarqy/courtside/internal/platform/resilience"
	"github.com/riskibarqy/courtside/internal/usecase"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// App owns the client core: stores, change feeds, services and the local API.
type App struct {
	cfg    config.Config
	logger *logging.Logger
	clock  clockwork.Clock

	server     *http.Server
	occupancy  *usecase.OccupancyService
	broadcasts *usecase.BroadcastService
	chat       *usecase.ChatService
	ticker     *usecase.TickerService

	closers []func() error
}

type stores struct {
	checkIns   checkin.Repository
	broadcasts broadcast.Repository
	chat       chat.Repository
	subscriber realtime.Subscriber
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
		clock:  clockwork.NewRealClock(),
	}
	if err := a.build(); err != nil {
		closeErr := a.close()
		return nil, errors.Join(err, closeErr)
	}
	return a, nil
}

func (a *App) build() error {
	st, err := a.openStores()
	if err != nil {
		return err
	}

	sessionFile, err := localstore.OpenFileStore(a.cfg.SessionFile, a.logger)
	if err != nil {
		return fmt.Errorf("open session file: %w", err)
	}

	workers, err := ants.NewPool(a.cfg.MutatorWorkers, ants.WithPanicHandler(func(rec any) {
		a.logger.Error("mutator task panicked", "panic", rec)
	}))
	if err != nil {
		return fmt.Errorf("create mutator pool: %w", err)
	}
	a.closers = append(a.closers, func() error {
		workers.Release()
		return nil
	})

	retry := usecase.RetryPolicy{
		Initial:     a.cfg.SubscribeRetryInitial,
		MaxInterval: a.cfg.SubscribeRetryMax,
	}
	catalog := memory.NewCourtCatalog(memory.SeedCourts())
	session := usecase.LoadSessionStore(sessionFile, a.logger)

	a.occupancy = usecase.NewOccupancyService(st.checkIns, st.subscriber, a.clock, usecase.OccupancyConfig{
		Window: a.cfg.OccupancyWindow,
		Retry:  retry,
	}, a.logger)
	a.broadcasts = usecase.NewBroadcastService(st.broadcasts, st.subscriber, catalog, session, a.clock, usecase.BroadcastConfig{
		Window: a.cfg.BroadcastWindow,
		Retry:  retry,
	}, a.logger)
	a.chat = usecase.NewChatService(st.chat, st.subscriber, catalog, session, usecase.ChatConfig{
		HistoryLimit: a.cfg.ChatHistoryLimit,
		Retry:        retry,
	}, a.logger)
	checkIns := usecase.NewCheckInService(st.checkIns, catalog, session, a.occupancy, workers, a.clock, a.cfg.MutatorWriteTimeout, a.logger)

	if a.cfg.TickerEnabled {
		scoreboards := espn.NewClient(espn.ClientConfig{
			HTTPClient: &http.Client{
				Timeout:   a.cfg.ESPNTimeout,
				Transport: otelhttp.NewTransport(http.DefaultTransport),
			},
			BaseURL:    a.cfg.ESPNBaseURL,
			Timeout:    a.cfg.ESPNTimeout,
			MaxRetries: a.cfg.ESPNMaxRetries,
			Logger:     a.logger,
			Clock:      a.clock,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          a.cfg.ESPNCircuitEnabled,
				FailureThreshold: a.cfg.ESPNCircuitFailureCount,
				OpenTimeout:      a.cfg.ESPNCircuitOpenTimeout,
				HalfOpenMaxReq:   a.cfg.ESPNCircuitHalfOpenMaxReq,
			},
		})
		a.ticker = usecase.NewTickerService(
			scoreboards,
			cache.NewStore[[]ticker.Game](a.cfg.CacheTTL, cache.WithClock(a.clock)),
			a.clock,
			a.cfg.TickerInterval,
			a.logger,
		)
	}

	handler := httpapi.NewHandler(httpapi.Services{
		Onboarding: usecase.NewOnboardingService(session, catalog, a.clock, a.logger),
		Courts:     usecase.NewCourtService(catalog, a.occupancy, a.broadcasts, a.logger),
		Occupancy:  a.occupancy,
		CheckIns:   checkIns,
		Broadcasts: a.broadcasts,
		Chat:       a.chat,
		Ticker:     a.ticker,
	}, a.clock, a.logger)

	a.server = &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, a.logger, a.cfg.CORSAllowedOrigins),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	}
	if a.server.Addr == "" {
		return fmt.Errorf("http server addr cannot be empty")
	}

	return nil
}

func (a *App) openStores() (stores, error) {
	if a.cfg.StoreDriver == config.StoreDriverMemory {
		hub := memory.NewHub()
		ids := idgen.NewUUIDGenerator()
		a.logger.Info("using in-memory store", "realtime", a.cfg.RealtimeDriver)
		return stores{
			checkIns:   memory.NewCheckInRepository(hub, a.clock, ids),
			broadcasts: memory.NewBroadcastRepository(hub, a.clock, ids),
			chat:       memory.NewChatRepository(hub, a.clock, ids),
			subscriber: hub,
		}, nil
	}

	db, err := openDB(a.cfg)
	if err != nil {
		return stores{}, err
	}
	a.closers = append(a.closers, db.Close)

	subscriber, err := a.openSubscriber()
	if err != nil {
		return stores{}, err
	}

	return stores{
		checkIns:   postgres.NewCheckInRepository(db),
		broadcasts: postgres.NewBroadcastRepository(db),
		chat:       postgres.NewChatRepository(db),
		subscriber: subscriber,
	}, nil
}

func (a *App) openSubscriber() (realtime.Subscriber, error) {
	switch a.cfg.RealtimeDriver {
	case config.RealtimeDriverPostgres:
		sub, err := pglisten.Open(pglisten.Config{
			DSN:          normalizeDBURL(a.cfg.DBURL, a.cfg.DBDisablePreparedBinary),
			Channel:      a.cfg.RealtimePGChannel,
			PingInterval: a.cfg.RealtimePingInterval,
		}, a.logger)
		if err != nil {
			return nil, fmt.Errorf("open postgres change feed: %w", err)
		}
		a.closers = append(a.closers, sub.Close)
		return sub, nil
	case config.RealtimeDriverNATS:
		sub, err := natsfeed.Connect(natsfeed.Config{
			URL:           a.cfg.NATSURL,
			SubjectPrefix: a.cfg.NATSSubjectPrefix,
			ClientName:    a.cfg.ServiceName,
		}, a.logger)
		if err != nil {
			return nil, fmt.Errorf("connect nats change feed: %w", err)
		}
		a.closers = append(a.closers, sub.Close)
		return sub, nil
	default:
		return nil, fmt.Errorf("realtime driver %q cannot follow a %s store", a.cfg.RealtimeDriver, a.cfg.StoreDriver)
	}
}

func (a *App) Server() *http.Server {
	return a.server
}

// Start activates the occupancy and broadcast feeds concurrently and starts the
// ticker poller. Chat stays idle until a scope is selected.
func (a *App) Start(ctx context.Context) error {
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		if err := a.occupancy.Activate(ctx, usecase.OccupancyScope{}); err != nil {
			return fmt.Errorf("activate occupancy: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		return a.broadcasts.Activate(ctx)
	})
	if err := p.Wait(); err != nil {
		// A failed snapshot leaves the feed subscribed; it reloads on the next event or refresh.
		a.logger.WarnContext(ctx, "initial feed activation incomplete", "error", err)
	}

	if a.ticker != nil {
		go a.ticker.Run(ctx)
	}
	a.logger.InfoContext(ctx, "client core started",
		"store", a.cfg.StoreDriver,
		"realtime", a.cfg.RealtimeDriver,
		"ticker_enabled", a.cfg.TickerEnabled,
	)
	return nil
}

// Shutdown stops the HTTP server, tears down every feed and releases stores.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}
	if a.chat != nil {
		a.chat.Deactivate()
	}
	if a.broadcasts != nil {
		a.broadcasts.Deactivate()
	}
	if a.occupancy != nil {
		a.occupancy.Deactivate()
	}
	if err := a.close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
