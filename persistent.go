package wrapcache

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/outpost-labs/wrapcache/bus"
)

// wrapPersistent installs the persistent strategy: hit short-circuit on the
// base key, miss populates and arms the refresh timer. The warm-load (once)
// and post-bust (durable) subscriptions are registered now, while the host
// is still composing, so a Start fired before the first call is not lost.
func (c *Coordinator) wrapPersistent(cfg Config, unit Unit) (Unit, error) {
	key := cfg.Key
	c.kinds.record(key, KindPersistent)

	// reload re-invokes the unit and overwrites the entry without checking
	// presence first. It runs on async paths only, so failures are logged
	// rather than returned.
	reload := func(ctx context.Context, cause string) {
		val, err := unit.Call(ctx)
		if err != nil {
			c.logger.Warn("reload failed",
				zap.String("key", key), zap.String("cause", cause), zap.Error(err))
			return
		}
		if err := c.store.Set(ctx, key, val); err != nil {
			c.logger.Warn("reload store failed",
				zap.String("key", key), zap.String("cause", cause), zap.Error(err))
			return
		}
		c.logger.Debug("entry reloaded",
			zap.String("key", key), zap.String("cause", cause))
	}

	sub, err := c.bus.SubscribeOnce(c.ctx, StartupTopic(key), func(ctx context.Context, _ bus.Message) {
		reload(ctx, "startup")
	})
	if err != nil {
		return Unit{}, err
	}
	c.track(sub)

	sub, err = c.bus.Subscribe(c.ctx, BustTopic(key), func(ctx context.Context, _ bus.Message) {
		reload(ctx, "bust")
	})
	if err != nil {
		return Unit{}, err
	}
	c.track(sub)

	wrapped := func(ctx context.Context, args ...any) (any, error) {
		if len(args) > 0 {
			return nil, errors.Wrapf(ErrArity, "key %q called with %d arguments", key, len(args))
		}
		val, ok, err := c.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			return val, nil
		}
		result, err := unit.Call(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(ctx, key, result); err != nil {
			return nil, err
		}
		if cfg.RefreshInterval > 0 {
			c.sched.every(key, cfg.RefreshInterval, func(ctx context.Context) {
				reload(ctx, "refresh")
			})
		}
		return result, nil
	}

	return Unit{Call: wrapped, Tags: taggedWith(unit.Tags, cfg)}, nil
}
