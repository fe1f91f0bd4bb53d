package wrapcache

import (
	"context"

	"go.uber.org/zap"
)

// wrapTemporal installs the temporal populate strategy: per-call key
// composition, hit short-circuit, and a creation-anchored TTL deletion.
func (c *Coordinator) wrapTemporal(cfg Config, unit Unit) (Unit, error) {
	c.kinds.record(cfg.Key, KindTemporal)

	wrapped := func(ctx context.Context, args ...any) (any, error) {
		cacheKey := ComposeKey(cfg.Key, args, cfg.ParamIndex)
		val, ok, err := c.store.Get(ctx, cacheKey)
		if err != nil {
			return nil, err
		}
		if ok {
			return val, nil
		}
		result, err := unit.Call(ctx, args...)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(ctx, cacheKey, result); err != nil {
			return nil, err
		}
		// The deadline anchors here. Later hits never extend it, and a
		// bust racing ahead just makes the late delete a no-op.
		c.sched.after(cfg.TTL, func(ctx context.Context) {
			if _, err := c.store.Delete(ctx, cacheKey); err != nil {
				c.logger.Warn("ttl delete failed",
					zap.String("key", cacheKey), zap.Error(err))
			}
		})
		return result, nil
	}

	return Unit{Call: wrapped, Tags: taggedWith(unit.Tags, cfg)}, nil
}

// wrapBust installs the invalidation strategy: drop the entry, run the
// function, and raise the base key's refresh topic when it belongs to a
// persistent entry. The fresh result is never stored; bust does not
// repopulate its own entry.
func (c *Coordinator) wrapBust(cfg Config, unit Unit) (Unit, error) {
	wrapped := func(ctx context.Context, args ...any) (any, error) {
		cacheKey := ComposeKey(cfg.Key, args, cfg.ParamIndex)
		if _, err := c.store.Delete(ctx, cacheKey); err != nil {
			return nil, err
		}
		result, err := unit.Call(ctx, args...)
		if err != nil {
			return nil, err
		}
		if kind, ok := c.kinds.lookup(cfg.Key); ok && kind == KindPersistent {
			if err := c.bus.Publish(ctx, BustTopic(cfg.Key), []byte(cfg.Key)); err != nil {
				c.logger.Warn("bust publish failed",
					zap.String("key", cfg.Key), zap.Error(err))
			}
		}
		return result, nil
	}

	return Unit{Call: wrapped, Tags: taggedWith(unit.Tags, cfg)}, nil
}
