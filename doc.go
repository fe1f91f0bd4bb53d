// Package wrapcache wraps arbitrary units of work with cache-aside
// semantics, selecting behavior by a declared kind.
//
// # Coordinator
//
// A [Coordinator] owns everything the strategies share: the storage
// adapter, the event bus, the kind registry, and the timer scheduler.
// Build one per composition root:
//
//	c := wrapcache.New(ctx, store.NewInMemory())
//	defer c.Close()
//
// Tests can run any number of coordinators in one process; nothing is
// process-global.
//
// # Wrapping
//
// [Coordinator.Wrap] takes a [Config] and a [Unit] and returns the
// replacement the host should expose instead of the original:
//
//	wrapped, err := c.Wrap(wrapcache.Config{
//	    Key:             "leaderboard",
//	    Kind:            wrapcache.KindPersistent,
//	    RefreshInterval: 5 * time.Minute,
//	}, wrapcache.Unit{Call: loadLeaderboard})
//
// Three strategies exist:
//
//   - Persistent ([KindPersistent]): the entry lives for the life of the
//     process. It is warm-loaded when [Coordinator.Start] fires, refreshed
//     on a periodic timer when RefreshInterval is set, and repopulated
//     after every bust against its key. Persistent functions take no
//     arguments; calling one with arguments returns [ErrArity].
//
//   - Temporal populate ([KindTemporal], Set true): per-call keys composed
//     from the arguments selected by ParamIndex, hit short-circuit, and a
//     TTL deletion anchored at creation. A later hit never extends the
//     deadline.
//
//   - Bust ([KindTemporal], Set false): deletes the composed key, runs the
//     function, and returns its result without storing it. When the base
//     key belongs to a persistent entry, the bust also raises that key's
//     refresh topic so the entry self-heals before the next read.
//
// # Concurrency
//
// Miss handling is check-then-invoke-then-store with no locking or
// in-flight de-duplication: two concurrent misses on one key both invoke
// and both write, later write wins. Callers needing single-flight behavior
// must provide it themselves.
//
// # Errors
//
// The engine adds behavior on the success path only. Storage errors and
// errors from the wrapped function pass through unchanged, and no cache
// write happens for a failed call. Failures on asynchronous paths (warm
// load, refresh ticks, post-bust reloads) have no caller, so they are
// logged through the coordinator's zap logger instead.
//
// # Declarative configuration
//
// [LoadConfig] parses a YAML document of per-key configs with
// human-readable durations, for hosts that declare their cache topology in
// a file rather than in code.
package wrapcache
