package mp4decrypt

import (
	"sort"
	"strings"
)

// marshalKeys projects the key map into two index-aligned slices, key ids
// sorted for deterministic engine input. Index i of both slices refers to
// the same map entry.
//
// Entries containing an embedded NUL byte cannot be represented as native
// strings and are rejected here, before any native call, rather than left to
// truncate silently at the boundary.
func marshalKeys(keys map[string]string) ([]string, []string, *Error) {
	ids := make([]string, 0, len(keys))
	for id := range keys {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	materials := make([]string, len(ids))
	for i, id := range ids {
		if strings.IndexByte(id, 0) >= 0 {
			return nil, nil, &Error{Kind: KindInvalidFormat, msg: "key id contains an embedded NUL byte."}
		}
		key := keys[id]
		if strings.IndexByte(key, 0) >= 0 {
			return nil, nil, &Error{Kind: KindInvalidFormat, msg: "key contains an embedded NUL byte."}
		}
		materials[i] = key
	}
	return ids, materials, nil
}
