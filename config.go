package wrapcache

import (
	"time"

	"github.com/cockroachdb/errors"
	str2duration "github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"
)

// Kind selects the strategy family installed for a base key.
type Kind string

const (
	// KindPersistent entries live indefinitely: warm-loaded at startup,
	// optionally refreshed on a timer, and repopulated after a bust.
	KindPersistent Kind = "persistent"
	// KindTemporal entries live for a fixed TTL from creation (Set true),
	// or invalidate their entry on every call (Set false).
	KindTemporal Kind = "temporal"
)

// Config declares the caching behavior for one base key.
type Config struct {
	// Key is the base identity of the cached entry.
	Key string
	// Kind selects the strategy family.
	Kind Kind
	// RefreshInterval enables periodic unconditional re-population of a
	// persistent entry. Zero disables the refresh timer.
	RefreshInterval time.Duration
	// TTL is the time until auto-eviction, anchored at creation. Required
	// for temporal populate configs; ignored for bust.
	TTL time.Duration
	// Set selects the temporal branch: true populates, false busts.
	Set bool
	// ParamIndex selects which call arguments feed key composition, in
	// order. Empty means all calls share the base key.
	ParamIndex []int
}

func (c Config) validate() error {
	if c.Key == "" {
		return errors.Wrap(ErrConfig, "key is required")
	}
	switch c.Kind {
	case KindPersistent:
		if c.RefreshInterval < 0 {
			return errors.Wrapf(ErrConfig, "key %q: refresh_interval must not be negative", c.Key)
		}
	case KindTemporal:
		if c.Set && c.TTL <= 0 {
			return errors.Wrapf(ErrConfig, "key %q: ttl must be positive", c.Key)
		}
	default:
		return errors.Wrapf(ErrConfig, "key %q: unknown kind %q", c.Key, c.Kind)
	}
	return nil
}

type configFile struct {
	Caches []configEntry `yaml:"caches"`
}

type configEntry struct {
	Key             string `yaml:"key"`
	Kind            string `yaml:"kind"`
	RefreshInterval string `yaml:"refresh_interval"`
	TTL             string `yaml:"ttl"`
	Set             *bool  `yaml:"set"`
	ParamIndex      []int  `yaml:"param_index"`
}

// LoadConfig parses a YAML cache-config document:
//
//	caches:
//	  - key: leaderboard
//	    kind: persistent
//	    refresh_interval: 5m
//	  - key: user
//	    kind: temporal
//	    ttl: 90s
//	    param_index: [0]
//
// Durations accept the extended str2duration syntax ("90s", "5m", "1d").
// Temporal entries populate unless "set: false" is explicit.
func LoadConfig(data []byte) ([]Config, error) {
	var f configFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse cache config")
	}
	configs := make([]Config, 0, len(f.Caches))
	for _, e := range f.Caches {
		cfg := Config{
			Key:        e.Key,
			Kind:       Kind(e.Kind),
			Set:        e.Set == nil || *e.Set,
			ParamIndex: e.ParamIndex,
		}
		if e.RefreshInterval != "" {
			d, err := str2duration.ParseDuration(e.RefreshInterval)
			if err != nil {
				return nil, errors.Wrapf(err, "key %q: refresh_interval", e.Key)
			}
			cfg.RefreshInterval = d
		}
		if e.TTL != "" {
			d, err := str2duration.ParseDuration(e.TTL)
			if err != nil {
				return nil, errors.Wrapf(err, "key %q: ttl", e.Key)
			}
			cfg.TTL = d
		}
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}
