package wrapcache

import "context"

// Func is a unit of work: a function whose result is side-effect-free
// enough to stand in for a later call with the same arguments.
type Func func(ctx context.Context, args ...any) (any, error)

// Unit couples a Func with the tag set the host uses for introspection.
type Unit struct {
	Call Func
	Tags Tags
}

// Wrap validates cfg and installs the matching strategy around unit,
// returning the replacement the host should expose in place of the
// original. The original tags are copied onto the wrapper unchanged, plus
// TagConfig recording the resolved configuration.
//
// Persistent and temporal populate wrapping also records the key's kind;
// whichever wrapping for a given base key runs last determines the kind the
// bust strategy later observes.
func (c *Coordinator) Wrap(cfg Config, unit Unit) (Unit, error) {
	if err := cfg.validate(); err != nil {
		return Unit{}, err
	}
	switch {
	case cfg.Kind == KindPersistent:
		return c.wrapPersistent(cfg, unit)
	case cfg.Set:
		return c.wrapTemporal(cfg, unit)
	default:
		return c.wrapBust(cfg, unit)
	}
}
