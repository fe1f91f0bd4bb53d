package store

import "context"

type compositeStore struct {
	stores []Store
}

var _ Store = (*compositeStore)(nil)

// NewComposite chains stores into tiers. Reads return the first hit,
// checked left to right; writes and deletes reach every tier. A common
// topology is in-memory L1 backed by Redis L2.
// At least one store must be provided; panics if empty.
func NewComposite(stores ...Store) Store {
	if len(stores) == 0 {
		panic("store: NewComposite requires at least one store")
	}
	return &compositeStore{stores: stores}
}

func (c *compositeStore) Has(ctx context.Context, key string) (bool, error) {
	for _, s := range c.stores {
		found, err := s.Has(ctx, key)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

func (c *compositeStore) Get(ctx context.Context, key string) (any, bool, error) {
	for _, s := range c.stores {
		val, found, err := s.Get(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if found {
			return val, true, nil
		}
	}
	return nil, false, nil
}

func (c *compositeStore) Set(ctx context.Context, key string, val any) error {
	var firstErr error
	for _, s := range c.stores {
		if err := s.Set(ctx, key, val); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *compositeStore) Delete(ctx context.Context, key string) (bool, error) {
	anyFound := false
	for _, s := range c.stores {
		found, err := s.Delete(ctx, key)
		if err != nil {
			return anyFound, err
		}
		if found {
			anyFound = true
		}
	}
	return anyFound, nil
}

func (c *compositeStore) Close() error {
	var firstErr error
	for _, s := range c.stores {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
