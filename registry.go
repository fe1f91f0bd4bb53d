package wrapcache

import "sync"

// kindRegistry records, per base key, the kind most recently installed for
// it. The bust strategy reads it to decide whether a bust should raise the
// key's refresh topic. Entries are never removed; they live as long as the
// coordinator.
type kindRegistry struct {
	mu    sync.RWMutex
	kinds map[string]Kind
}

func newKindRegistry() *kindRegistry {
	return &kindRegistry{kinds: make(map[string]Kind)}
}

// record stores kind for key. Last writer wins.
func (r *kindRegistry) record(key string, kind Kind) {
	r.mu.Lock()
	r.kinds[key] = kind
	r.mu.Unlock()
}

func (r *kindRegistry) lookup(key string) (Kind, bool) {
	r.mu.RLock()
	kind, ok := r.kinds[key]
	r.mu.RUnlock()
	return kind, ok
}

// persistentKeys returns the keys currently recorded as persistent, for the
// startup warm-load pass.
func (r *kindRegistry) persistentKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var keys []string
	for key, kind := range r.kinds {
		if kind == KindPersistent {
			keys = append(keys, key)
		}
	}
	return keys
}
