package wrapcache

import (
	"context"
	"sync"
	"time"
)

// refreshScheduler owns every timer the engine creates: periodic refresh
// tickers for persistent keys and one-shot TTL deletions for temporal
// entries. At most one periodic ticker exists per key. No per-timer
// cancellation is exposed; every timer stops when the scheduler's context is
// cancelled at coordinator teardown.
type refreshScheduler struct {
	ctx    context.Context
	mu     sync.Mutex
	active map[string]struct{}
	wg     sync.WaitGroup
}

func newRefreshScheduler(ctx context.Context) *refreshScheduler {
	return &refreshScheduler{ctx: ctx, active: make(map[string]struct{})}
}

// every starts a periodic timer for key unless one is already active.
// Registration is idempotent; the return reports whether a new timer
// started.
func (s *refreshScheduler) every(key string, interval time.Duration, fn func(ctx context.Context)) bool {
	s.mu.Lock()
	if _, ok := s.active[key]; ok {
		s.mu.Unlock()
		return false
	}
	s.active[key] = struct{}{}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				fn(s.ctx)
			}
		}
	}()
	return true
}

// after runs fn once after d. The timer cannot be cancelled individually; a
// delete racing ahead of it leaves the late fire a harmless no-op.
func (s *refreshScheduler) after(d time.Duration, fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-s.ctx.Done():
		case <-timer.C:
			fn(s.ctx)
		}
	}()
}

// wait blocks until every timer goroutine has exited. Call after cancelling
// the scheduler's context.
func (s *refreshScheduler) wait() {
	s.wg.Wait()
}
