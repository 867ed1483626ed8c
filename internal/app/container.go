package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"

	rediscache "github.com/lmco/eurekastreams/internal/adapter/cache/redis"
	"github.com/lmco/eurekastreams/internal/adapter/events/amqp"
	"github.com/lmco/eurekastreams/internal/adapter/events/nats"
	"github.com/lmco/eurekastreams/internal/adapter/notifications"
	"github.com/lmco/eurekastreams/internal/adapter/repository/memory"
	"github.com/lmco/eurekastreams/internal/adapter/repository/postgres"
	"github.com/lmco/eurekastreams/internal/adapter/repository/sqlite"
	"github.com/lmco/eurekastreams/internal/config"
	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
	"github.com/lmco/eurekastreams/internal/notification/translator"
	"github.com/lmco/eurekastreams/internal/pkg/circuitbreaker"
	"github.com/lmco/eurekastreams/internal/pkg/logger"
	"github.com/lmco/eurekastreams/internal/port"
	"github.com/lmco/eurekastreams/internal/service"
	transport "github.com/lmco/eurekastreams/internal/transport/http"
	"github.com/lmco/eurekastreams/internal/validation"
)

// Container holds the wired service. Optional parts (Relay, Consumer) are nil when
// their infrastructure is not configured.
type Container struct {
	Config *config.Config

	Store       port.ReadStore
	Outbox      port.OutboxRepository
	Idempotency port.IdempotencyStore
	TxManager   port.TxManager
	Publisher   port.BatchPublisher

	Registry *translator.Registry
	Notifier *service.Notifier
	Relay    *service.OutboxRelay
	Consumer *nats.Consumer
	Handler  http.Handler

	pingers []func(ctx context.Context) error
	closers []func() error
}

// NewContainer wires the service from cfg. On error every resource opened so far is
// closed again.
func NewContainer(ctx context.Context, cfg *config.Config) (_ *Container, err error) {
	c := &Container{Config: cfg}
	defer func() {
		if err != nil {
			if cerr := c.Close(); cerr != nil {
				logger.From(ctx).Warn("closing partially built container", "error", cerr)
			}
		}
	}()

	if err := c.openStore(ctx); err != nil {
		return nil, err
	}

	deps := translator.StoreDeps(c.Store)
	deps.NotifyGroupCoordinators = cfg.NotifyGroupCoordinators
	var cache *rediscache.LookupCache
	if cfg.RedisAddr != "" {
		client := rediscache.NewClient(cfg.RedisAddr)
		c.closers = append(c.closers, client.Close)
		c.pingers = append(c.pingers, func(ctx context.Context) error { return client.Ping(ctx).Err() })
		cache = cacheLookups(&deps, client, cfg)
	}
	c.Registry = translator.Build(deps)

	var natsClient *nats.Client
	if cfg.NATSURL != "" {
		natsClient, err = nats.NewClient(cfg.NATSURL, cfg.ServiceName)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, natsClient.Drain)
		c.pingers = append(c.pingers, func(context.Context) error {
			if !natsClient.IsConnected() {
				return errors.New("nats is not connected")
			}
			return nil
		})
	}
	if err := c.buildPublisher(natsClient); err != nil {
		return nil, err
	}

	c.Notifier = service.NewNotifier(c.Registry, notification.NewEntityResolver(c.Store),
		c.Publisher, c.Outbox, c.Idempotency, c.TxManager, cfg.BatchSubject)
	if cache != nil {
		c.Notifier.Observers = append(c.Notifier.Observers, staleLookups{cache: cache})
	}
	if c.Outbox != nil {
		c.Relay = service.NewOutboxRelay(c.Outbox, c.Publisher, c.TxManager, cfg.OutboxInterval, cfg.OutboxBatchSize)
	}
	if natsClient != nil {
		c.Consumer = nats.NewConsumer(natsClient, cfg.EventsSubject, cfg.EventsQueue, eventHandler{c.Notifier})
	}

	h := transport.NewHandler(c.Notifier, validation.NewShareValidator(c.Store, c.Store), c.Registry.Types, c.Ready)
	c.Handler = transport.NewRouter(h, transport.RouterOptions{
		AllowedOrigins:   cfg.CORSOrigins,
		RequestTimeout:   cfg.HTTPTimeout,
		BreakerThreshold: cfg.BreakerThreshold,
		BreakerTimeout:   cfg.BreakerTimeout,
	})
	return c, nil
}

func (c *Container) openStore(ctx context.Context) error {
	cfg := c.Config
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, store.Close)
		c.pingers = append(c.pingers, store.Ping)
		if cfg.SeedFile != "" {
			ds, err := readDataset(cfg.SeedFile)
			if err != nil {
				return err
			}
			if err := store.Import(ctx, ds); err != nil {
				return fmt.Errorf("seed sqlite store: %w", err)
			}
		}
		c.Store, c.Outbox, c.Idempotency, c.TxManager = store, store, store, store

	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, func() error { pool.Close(); return nil })
		c.pingers = append(c.pingers, pool.Ping)
		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}
		sys := postgres.NewSystemRepository(pool)
		c.Store = postgres.NewStreamRepository(pool)
		c.Outbox, c.Idempotency, c.TxManager = sys, sys, postgres.NewTxManager(pool)

	default:
		store := memory.NewStore()
		if cfg.SeedFile != "" {
			ds, err := readDataset(cfg.SeedFile)
			if err != nil {
				return err
			}
			store.Apply(ds)
		}
		sys := memory.NewSystemRepositoryStub()
		c.Store, c.Outbox, c.Idempotency, c.TxManager = store, sys, sys, sys
	}
	return nil
}

// buildPublisher routes batches to every configured broker, or to the log when none is.
func (c *Container) buildPublisher(natsClient *nats.Client) error {
	cfg := c.Config
	sinks := map[string]port.BatchPublisher{}
	var names []string

	if natsClient != nil {
		sinks["nats"] = nats.NewPublisher(natsClient)
		names = append(names, "nats")
	}
	if cfg.AMQPURL != "" {
		conn, err := amqp.Connect(cfg.AMQPURL)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, conn.Close)
		c.pingers = append(c.pingers, func(context.Context) error {
			if !conn.IsHealthy() {
				return errors.New("amqp connection or channel is closed")
			}
			return nil
		})
		sinks["amqp"] = amqp.NewPublisher(conn, cfg.AMQPQueue)
		names = append(names, "amqp")
	}
	sinks["log"] = notifications.LogSink{}
	if len(names) == 0 {
		names = append(names, "log")
	}

	d := notifications.NewDispatcher(names...)
	for name, sink := range sinks {
		d.AddSink(name, sink)
	}
	if len(cfg.BatchSinks) > 0 {
		for _, name := range cfg.BatchSinks {
			if _, ok := sinks[name]; !ok {
				return fmt.Errorf("BATCH_SINKS names sink %q, which is not configured", name)
			}
		}
		d.Route(cfg.BatchSubject, cfg.BatchSinks...)
	}
	c.Publisher = d
	return nil
}

// Cached lookup names.
const (
	listCoordinators = "coordinators"
	listMembers      = "members"
	listUnrestricted = "unrestricted"
	listSubscribers  = "subscribers"
	setAdmins        = "admins"
)

// cacheLookups puts the slow-changing recipient lists behind redis. Commentors and
// savers change with every comment and star, so they are always read from the store.
func cacheLookups(d *translator.Deps, client *redis.Client, cfg *config.Config) *rediscache.LookupCache {
	cache := rediscache.NewLookupCache(client, cfg.LookupCacheTTL,
		circuitbreaker.NewBreaker(cfg.BreakerThreshold, cfg.BreakerTimeout, 1))
	d.Coordinators = cache.List(listCoordinators, d.Coordinators)
	d.Members = cache.List(listMembers, d.Members)
	d.UnrestrictedMembers = cache.List(listUnrestricted, d.UnrestrictedMembers)
	d.Subscribers = cache.List(listSubscribers, d.Subscribers)
	d.Admins = cache.Set(setAdmins, d.Admins)
	return cache
}

type lookupKey struct {
	name string
	id   int64
}

// staleKeys names the cached lists an event changes. Following a group joins it.
func staleKeys(ev domain.Event) []lookupKey {
	switch e := ev.(type) {
	case domain.TargetEvent:
		switch e.Type {
		case domain.EventFollowPerson:
			return []lookupKey{{listSubscribers, e.TargetID}}
		case domain.EventFollowGroup:
			return []lookupKey{{listMembers, e.TargetID}, {listUnrestricted, e.TargetID}}
		}
	case domain.MembershipEvent:
		if e.Decision == domain.DecisionApproved {
			return []lookupKey{{listMembers, e.GroupID}, {listUnrestricted, e.GroupID}}
		}
	case domain.NewGroupEvent:
		if e.Decision == domain.DecisionApproved {
			return []lookupKey{{listCoordinators, e.GroupID}, {listMembers, e.GroupID}}
		}
	}
	return nil
}

// staleLookups drops cached lists after the notifier handled an event that changes them.
type staleLookups struct {
	cache *rediscache.LookupCache
}

func (s staleLookups) Observe(ctx context.Context, ev domain.Event) {
	for _, k := range staleKeys(ev) {
		if err := s.cache.Invalidate(ctx, k.name, k.id); err != nil {
			logger.From(ctx).Warn("lookup cache invalidation failed", "list", k.name, "id", k.id, "error", err)
		}
	}
}

// Ready pings every backing service.
func (c *Container) Ready(ctx context.Context) error {
	for _, ping := range c.pingers {
		if err := ping(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// eventHandler adapts the notifier to the bus consumer, which only needs the error.
type eventHandler struct {
	notifier *service.Notifier
}

func (h eventHandler) Handle(ctx context.Context, eventID string, ev domain.Event) error {
	res, err := h.notifier.Handle(ctx, eventID, ev)
	if err != nil {
		return err
	}
	if res.Duplicate {
		logger.From(ctx).Debug("duplicate event skipped", "event_id", eventID)
	}
	return nil
}

func readDataset(path string) (domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return domain.DecodeDataset(f)
}
