package wrapcache

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeKeyNoParams(t *testing.T) {
	// Without paramIndex every call collides on the base key.
	assert.Equal(t, "users", ComposeKey("users", nil, nil))
	assert.Equal(t, "users", ComposeKey("users", []any{"a", 1}, nil))
	assert.Equal(t, "users", ComposeKey("users", []any{"b"}, []int{}))
}

func TestComposeKeyDeterministic(t *testing.T) {
	args := []any{"alice", 42, map[string]any{"active": true}}
	first := ComposeKey("users", args, []int{0, 1, 2})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComposeKey("users", args, []int{0, 1, 2}))
	}
}

func TestComposeKeyArgumentIsolation(t *testing.T) {
	a := ComposeKey("users", []any{"a"}, []int{0})
	b := ComposeKey("users", []any{"b"}, []int{0})
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "users"+keySeparator))
	assert.True(t, strings.HasPrefix(b, "users"+keySeparator))
}

func TestComposeKeyIndexOrder(t *testing.T) {
	args := []any{"a", "b"}
	assert.NotEqual(t,
		ComposeKey("k", args, []int{0, 1}),
		ComposeKey("k", args, []int{1, 0}))
}

func TestComposeKeyOutOfRangeIndex(t *testing.T) {
	// An index with no argument encodes the null placeholder, same as an
	// explicit nil argument. Not an error.
	assert.Equal(t,
		ComposeKey("k", []any{nil}, []int{0}),
		ComposeKey("k", nil, []int{0}))
	assert.Equal(t,
		ComposeKey("k", []any{"x"}, []int{5}),
		ComposeKey("k", nil, []int{5}))
}

func TestComposeKeySerializationOrderNotCanonicalized(t *testing.T) {
	// The digest covers the serialization as produced, so structurally
	// equal objects serialized with different field order get different
	// keys. This asserts the current behavior, not a guarantee callers
	// should want.
	a := json.RawMessage(`{"a":1,"b":2}`)
	b := json.RawMessage(`{"b":2,"a":1}`)
	assert.NotEqual(t,
		ComposeKey("k", []any{a}, []int{0}),
		ComposeKey("k", []any{b}, []int{0}))
	assert.Equal(t,
		ComposeKey("k", []any{a}, []int{0}),
		ComposeKey("k", []any{json.RawMessage(`{"a":1,"b":2}`)}, []int{0}))
}

func TestComposeKeyEncodingHasNoSeparator(t *testing.T) {
	// The encoded portion after the base must never contain the separator,
	// even when the argument value does.
	key := ComposeKey("k", []any{"a:b:c"}, []int{0})
	encoded := strings.TrimPrefix(key, "k"+keySeparator)
	assert.NotContains(t, encoded, keySeparator)
}
