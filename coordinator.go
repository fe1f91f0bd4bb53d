package wrapcache

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/outpost-labs/wrapcache/bus"
	"github.com/outpost-labs/wrapcache/store"
)

// StartupTopic returns the one-shot warm-load topic for a base key. It
// fires when Start runs, at most once per coordinator.
func StartupTopic(key string) string {
	return "wrapcache.startup." + key
}

// BustTopic returns the durable refresh topic for a base key. It fires
// every time a bust against that key completes.
func BustTopic(key string) string {
	return "wrapcache.bust." + key
}

type coordinatorConfig struct {
	bus    bus.Bus
	logger *zap.Logger
}

// Option configures a Coordinator.
type Option func(*coordinatorConfig)

// WithBus replaces the default in-process bus, e.g. with bus.NewRedis so
// bust signals reach other processes.
func WithBus(b bus.Bus) Option {
	return func(c *coordinatorConfig) { c.bus = b }
}

// WithLogger sets the logger for asynchronous work (warm loads, refresh
// ticks, post-bust reloads). Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *coordinatorConfig) { c.logger = l }
}

// Coordinator owns the moving parts the strategies share: the storage
// adapter, the event bus, the kind registry, and the timer scheduler. Build
// one per composition root and pass it to Wrap; tests can run any number of
// isolated coordinators in one process.
type Coordinator struct {
	store  store.Store
	bus    bus.Bus
	logger *zap.Logger
	kinds  *kindRegistry
	sched  *refreshScheduler

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	subs []bus.Subscriber

	started   sync.Once
	closeOnce sync.Once
}

// New returns a Coordinator over s. The coordinator does not take ownership
// of the store; the caller closes it.
func New(parent context.Context, s store.Store, opts ...Option) *Coordinator {
	cfg := coordinatorConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.bus == nil {
		cfg.bus = bus.NewInMemory()
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(parent)
	return &Coordinator{
		store:  s,
		bus:    cfg.bus,
		logger: cfg.logger,
		kinds:  newKindRegistry(),
		sched:  newRefreshScheduler(ctx),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start announces that the host has finished composing: every persistent
// key's startup topic fires, warm-loading the subscribed entries. The
// startup pass runs at most once per coordinator; later calls are no-ops.
func (c *Coordinator) Start(ctx context.Context) {
	c.started.Do(func() {
		for _, key := range c.kinds.persistentKeys() {
			if err := c.bus.Publish(ctx, StartupTopic(key), []byte(key)); err != nil {
				c.logger.Warn("startup publish failed",
					zap.String("key", key), zap.Error(err))
			}
		}
	})
}

// Store returns the storage adapter the coordinator orchestrates.
func (c *Coordinator) Store() store.Store {
	return c.store
}

// KindOf reports the kind most recently installed for key, for host-side
// introspection.
func (c *Coordinator) KindOf(key string) (Kind, bool) {
	return c.kinds.lookup(key)
}

func (c *Coordinator) track(sub bus.Subscriber) {
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
}

// Close tears the coordinator down: all timers stop and drain, all bus
// subscriptions detach, and the bus closes. The store stays open; the
// caller owns it.
func (c *Coordinator) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		c.sched.wait()
		c.mu.Lock()
		subs := c.subs
		c.subs = nil
		c.mu.Unlock()
		for _, sub := range subs {
			_ = sub.Close()
		}
		err = c.bus.Close()
	})
	return err
}
