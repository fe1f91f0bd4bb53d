package wrapcache

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/outpost-labs/wrapcache/store"
)

// countingUnit returns a Unit whose calls are counted and whose results
// change on every invocation.
func countingUnit(calls *atomic.Int32) Unit {
	return Unit{Call: func(ctx context.Context, args ...any) (any, error) {
		n := calls.Add(1)
		return fmt.Sprintf("v%d", n), nil
	}}
}

// errorStore wraps a Store and fails selected operations.
type errorStore struct {
	store.Store
	getErr error
	setErr error
	delErr error
}

func (e *errorStore) Get(ctx context.Context, key string) (any, bool, error) {
	if e.getErr != nil {
		return nil, false, e.getErr
	}
	return e.Store.Get(ctx, key)
}

func (e *errorStore) Set(ctx context.Context, key string, val any) error {
	if e.setErr != nil {
		return e.setErr
	}
	return e.Store.Set(ctx, key, val)
}

func (e *errorStore) Delete(ctx context.Context, key string) (bool, error) {
	if e.delErr != nil {
		return false, e.delErr
	}
	return e.Store.Delete(ctx, key)
}

func TestPersistentMissThenHit(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, store.NewInMemory())
	defer c.Close()

	var calls atomic.Int32
	wrapped, err := c.Wrap(Config{Key: "report", Kind: KindPersistent}, countingUnit(&calls))
	assert.NoError(t, err)

	val, err := wrapped.Call(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "v1", val)
	assert.Equal(t, int32(1), calls.Load())

	// Second call is a hit; the unit is not invoked again.
	val, err = wrapped.Call(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "v1", val)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPersistentArity(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, store.NewInMemory())
	defer c.Close()

	var calls atomic.Int32
	wrapped, err := c.Wrap(Config{Key: "report", Kind: KindPersistent}, countingUnit(&calls))
	assert.NoError(t, err)

	_, err = wrapped.Call(ctx, "unexpected")
	assert.True(t, errors.Is(err, ErrArity))
	assert.Equal(t, int32(0), calls.Load(), "unit must never run on an arity failure")

	// A correct call afterwards still works.
	val, err := wrapped.Call(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "v1", val)
}

func TestPersistentRefreshOverwrite(t *testing.T) {
	ctx := context.Background()
	st := store.NewInMemory()
	c := New(ctx, st)
	defer c.Close()

	var calls atomic.Int32
	wrapped, err := c.Wrap(Config{
		Key:             "report",
		Kind:            KindPersistent,
		RefreshInterval: 20 * time.Millisecond,
	}, countingUnit(&calls))
	assert.NoError(t, err)

	_, err = wrapped.Call(ctx)
	assert.NoError(t, err)

	// With no further calls the stored value keeps advancing.
	assert.Eventually(t, func() bool {
		val, ok, err := st.Get(ctx, "report")
		return err == nil && ok && val != "v1"
	}, time.Second, 5*time.Millisecond)

	// Refresh is absolute, not conditional: a deleted entry comes back on
	// the next tick without any call.
	_, err = st.Delete(ctx, "report")
	assert.NoError(t, err)
	assert.Eventually(t, func() bool {
		_, ok, err := st.Get(ctx, "report")
		return err == nil && ok
	}, time.Second, 5*time.Millisecond)
}

func TestPersistentWorkError(t *testing.T) {
	ctx := context.Background()
	st := store.NewInMemory()
	c := New(ctx, st)
	defer c.Close()

	boom := fmt.Errorf("upstream down")
	wrapped, err := c.Wrap(Config{Key: "report", Kind: KindPersistent}, Unit{
		Call: func(ctx context.Context, args ...any) (any, error) {
			return nil, boom
		},
	})
	assert.NoError(t, err)

	_, err = wrapped.Call(ctx)
	assert.ErrorIs(t, err, boom)

	// A failed call writes nothing.
	_, ok, err := st.Get(ctx, "report")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistentStorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	boom := fmt.Errorf("disk I/O error")

	t.Run("get", func(t *testing.T) {
		c := New(ctx, &errorStore{Store: store.NewInMemory(), getErr: boom})
		defer c.Close()

		var calls atomic.Int32
		wrapped, err := c.Wrap(Config{Key: "report", Kind: KindPersistent}, countingUnit(&calls))
		assert.NoError(t, err)

		_, err = wrapped.Call(ctx)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("set", func(t *testing.T) {
		c := New(ctx, &errorStore{Store: store.NewInMemory(), setErr: boom})
		defer c.Close()

		var calls atomic.Int32
		wrapped, err := c.Wrap(Config{Key: "report", Kind: KindPersistent}, countingUnit(&calls))
		assert.NoError(t, err)

		_, err = wrapped.Call(ctx)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestWrapTagPropagation(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, store.NewInMemory())
	defer c.Close()

	original := Unit{
		Call: func(ctx context.Context, args ...any) (any, error) { return "v", nil },
		Tags: Tags{"route": "/reports", "auth": true},
	}
	cfg := Config{Key: "report", Kind: KindPersistent}
	wrapped, err := c.Wrap(cfg, original)
	assert.NoError(t, err)

	assert.Equal(t, "/reports", wrapped.Tags["route"])
	assert.Equal(t, true, wrapped.Tags["auth"])
	assert.Equal(t, cfg, wrapped.Tags[TagConfig])

	// The original tag set is copied, not aliased.
	wrapped.Tags["route"] = "/other"
	assert.Equal(t, "/reports", original.Tags["route"])
	_, ok := original.Tags[TagConfig]
	assert.False(t, ok)
}

func TestWrapInvalidConfig(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, store.NewInMemory())
	defer c.Close()

	_, err := c.Wrap(Config{Kind: KindPersistent}, Unit{})
	assert.True(t, errors.Is(err, ErrConfig))

	_, err = c.Wrap(Config{Key: "k", Kind: "eternal"}, Unit{})
	assert.True(t, errors.Is(err, ErrConfig))
}
