package main

import (
	"fmt"
	"sort"
	"strings"
)

// keyList implements flag.Value for repeatable -k flags. Each value is
// "KID:KEY" where KID is a 32-hex-char key ID or a track index. The halves
// travel to the engine untouched; hex validation happens there so the CLI
// reports the same errors as the library.
type keyList map[string]string

func (k keyList) String() string {
	// Key material never goes to output, only the identifiers.
	ids := make([]string, 0, len(k))
	for id := range k {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

func (k keyList) Set(value string) error {
	id, key, ok := strings.Cut(value, ":")
	if !ok || id == "" || key == "" {
		return fmt.Errorf("invalid key format, expected KID:KEY")
	}
	k[id] = key
	return nil
}
