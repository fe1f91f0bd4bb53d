package wrapcache

import "github.com/cockroachdb/errors"

// ErrArity is returned when a persistent wrapper is invoked with arguments.
// Persistent entries key on the base key alone, so the wrapped function must
// take none. The check happens at call time and the wrapped function is
// never invoked.
var ErrArity = errors.New("persistent cache function takes no arguments")

// ErrConfig is returned by Wrap and LoadConfig for invalid configurations.
var ErrConfig = errors.New("invalid cache config")
