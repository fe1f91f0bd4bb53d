package wrapcache

// TagConfig is the tag key under which Wrap records the resolved Config on
// the wrapper it returns.
const TagConfig = "cache.config"

// Tags is the host-visible attribute set attached to a unit of work.
// Wrapping copies tags by value so host-side introspection (routing,
// validation, documentation generation) keeps observing the original
// declarations through the wrapper.
type Tags map[string]any

// Clone returns a shallow copy. Cloning a nil tag set returns an empty,
// writable map.
func (t Tags) Clone() Tags {
	clone := make(Tags, len(t)+1)
	for k, v := range t {
		clone[k] = v
	}
	return clone
}

func taggedWith(tags Tags, cfg Config) Tags {
	clone := tags.Clone()
	clone[TagConfig] = cfg
	return clone
}
