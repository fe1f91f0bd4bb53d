package wrapcache

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// keySeparator joins the base key with encoded argument values.
const keySeparator = ":"

// ComposeKey derives the storage key for a call from the base key and the
// arguments selected by paramIndex. With an empty paramIndex every call
// collapses onto the base key regardless of arguments. Otherwise each
// selected argument is JSON-serialized and folded to an xxhash64 hex digest,
// so the encoding never contains the separator and stays bounded regardless
// of argument size.
//
// The digest is a function of the serialization, not the value: two
// structurally equal values that serialize with different field order
// produce different keys. This is a documented limitation, not something
// callers should rely on being fixed. An index with no corresponding
// argument encodes the JSON null placeholder rather than failing.
func ComposeKey(base string, args []any, paramIndex []int) string {
	if len(paramIndex) == 0 {
		return base
	}
	var sb strings.Builder
	sb.WriteString(base)
	for _, i := range paramIndex {
		var arg any
		if i >= 0 && i < len(args) {
			arg = args[i]
		}
		data, err := json.Marshal(arg)
		if err != nil {
			// Unserializable arguments (channels, funcs) fall back to the
			// same placeholder as an absent one.
			data = []byte("null")
		}
		sb.WriteString(keySeparator)
		sb.WriteString(strconv.FormatUint(xxhash.Sum64(data), 16))
	}
	return sb.String()
}
