package store

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Store is the minimal key-value capability the engine consumes. Set takes
// no TTL; entry lifetime is driven by the engine's own timers. Backends may
// expire entries natively on top of that.
type Store interface {
	// Has reports whether key currently holds a value.
	Has(ctx context.Context, key string) (bool, error)
	// Get returns the value under key. The bool reports presence; reading
	// and presence are combined so I/O backends pay a single round trip.
	Get(ctx context.Context, key string) (any, bool, error)
	// Set stores val under key, replacing any previous value.
	Set(ctx context.Context, key string, val any) error
	// Delete removes key. Deleting an absent key is a no-op, not an
	// error; the bool reports whether anything was removed.
	Delete(ctx context.Context, key string) (bool, error)
	// Close releases backend resources owned by the store.
	Close() error
}

// DefaultQueryTimeout bounds each operation on I/O-backed stores (Redis,
// SQLite) so slow or unresponsive storage cannot hang a caller.
const DefaultQueryTimeout = 5 * time.Second

type config struct {
	queryTimeout time.Duration
	prefix       string
}

// Option configures a Store implementation.
type Option func(*config)

func applyOptions(opts []Option) config {
	cfg := config{queryTimeout: DefaultQueryTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithQueryTimeout sets the per-operation timeout for I/O-backed stores.
// Defaults to DefaultQueryTimeout.
func WithQueryTimeout(d time.Duration) Option {
	return func(c *config) { c.queryTimeout = d }
}

// WithPrefix sets a key prefix for namespacing. Applies to the Redis
// backend. Defaults to empty.
func WithPrefix(p string) Option {
	return func(c *config) { c.prefix = p }
}

// As reads key through s with type safety: a direct assertion for backends
// that hold values as-is (in-memory), a msgpack decode for serialized
// backends that hand back []byte (Redis, SQLite).
func As[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var zero T
	val, found, err := s.Get(ctx, key)
	if !found || err != nil {
		return zero, false, err
	}
	if typed, ok := val.(T); ok {
		return typed, true, nil
	}
	if data, ok := val.([]byte); ok {
		var result T
		if err := msgpack.Unmarshal(data, &result); err != nil {
			return zero, false, errors.Wrap(err, "store: unmarshal value")
		}
		return result, true, nil
	}
	return zero, false, errors.Newf("store: cannot convert value of type %T to %T", val, zero)
}
