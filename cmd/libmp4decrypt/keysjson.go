package main

import (
	"errors"

	"github.com/tidwall/gjson"

	"github.com/streamkit/mp4decrypt-go/pkg/mp4decrypt"
)

// Adapter statuses. 0 and 1 are outcomes; negatives are contract
// violations caught before decryption.
const (
	statusOK            = 0
	statusNullArgument  = -1
	statusInvalidUTF8   = -2
	statusInvalidJSON   = -3
	statusAllocFailed   = -4
	statusDecryptFailed = 1
)

// parseKeysJSON parses a flat JSON object mapping key-identifier strings to
// key-hex strings. Anything else (arrays, nested values, non-string members,
// trailing garbage) is rejected. Duplicate keys resolve to the last
// occurrence.
func parseKeysJSON(text string) (map[string]string, bool) {
	if !gjson.Valid(text) {
		return nil, false
	}
	root := gjson.Parse(text)
	if !root.IsObject() {
		return nil, false
	}

	keys := map[string]string{}
	flat := true
	root.ForEach(func(k, v gjson.Result) bool {
		if v.Type != gjson.String {
			flat = false
			return false
		}
		keys[k.String()] = v.String()
		return true
	})
	if !flat {
		return nil, false
	}
	return keys, true
}

// errorRecord flattens a decrypt failure into the error record fields:
// InvalidFormat maps to 1, DataTooLarge to 2, Failed keeps its raw engine
// code, and engine reachability failures use -1.
func errorRecord(err error) (int, string) {
	var derr *mp4decrypt.Error
	if errors.As(err, &derr) {
		switch derr.Kind {
		case mp4decrypt.KindInvalidFormat:
			return 1, derr.Error()
		case mp4decrypt.KindDataTooLarge:
			return 2, derr.Error()
		default:
			return derr.Code, derr.Error()
		}
	}
	return -1, err.Error()
}
