package wrapcache

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	configs, err := LoadConfig([]byte(`
caches:
  - key: leaderboard
    kind: persistent
    refresh_interval: 5m
  - key: user
    kind: temporal
    ttl: 90s
    param_index: [0]
  - key: user
    kind: temporal
    set: false
`))
	assert.NoError(t, err)
	assert.Len(t, configs, 3)

	assert.Equal(t, Config{
		Key:             "leaderboard",
		Kind:            KindPersistent,
		RefreshInterval: 5 * time.Minute,
		Set:             true,
	}, configs[0])

	assert.Equal(t, Config{
		Key:        "user",
		Kind:       KindTemporal,
		TTL:        90 * time.Second,
		Set:        true,
		ParamIndex: []int{0},
	}, configs[1])

	// set: false is the bust branch; no ttl required.
	assert.Equal(t, KindTemporal, configs[2].Kind)
	assert.False(t, configs[2].Set)
}

func TestLoadConfigExtendedDurations(t *testing.T) {
	configs, err := LoadConfig([]byte(`
caches:
  - key: report
    kind: persistent
    refresh_interval: 1d
`))
	assert.NoError(t, err)
	assert.Equal(t, 24*time.Hour, configs[0].RefreshInterval)
}

func TestLoadConfigErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"missing key":      "caches:\n  - kind: persistent\n",
		"unknown kind":     "caches:\n  - key: k\n    kind: eternal\n",
		"missing ttl":      "caches:\n  - key: k\n    kind: temporal\n",
		"not yaml":         ":\n::\n",
		"bad duration":     "caches:\n  - key: k\n    kind: temporal\n    ttl: soon\n",
		"negative refresh": "caches:\n  - key: k\n    kind: persistent\n    refresh_interval: -5s\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	err := Config{Kind: KindPersistent}.validate()
	assert.True(t, errors.Is(err, ErrConfig))

	err = Config{Key: "k", Kind: KindTemporal, Set: true}.validate()
	assert.True(t, errors.Is(err, ErrConfig))

	// Bust does not need a TTL.
	assert.NoError(t, Config{Key: "k", Kind: KindTemporal, Set: false}.validate())
	assert.NoError(t, Config{Key: "k", Kind: KindPersistent}.validate())
}
