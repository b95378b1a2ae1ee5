package mp4decrypt

import (
	"math"

	"github.com/streamkit/mp4decrypt-go/internal/bindings"
)

// engine abstracts the two native entry points so the session logic can be
// exercised against a double in tests.
type engine interface {
	DecryptInMemory(data []byte, keyIDs, keys []string) (int, []byte, error)
	DecryptInMemoryWithFragmentsInfo(data, fragmentsInfo []byte, keyIDs, keys []string) (int, []byte, error)
}

// nativeEngine forwards to whichever bindings backend this binary carries.
type nativeEngine struct{}

func (nativeEngine) DecryptInMemory(data []byte, keyIDs, keys []string) (int, []byte, error) {
	return bindings.DecryptInMemory(data, keyIDs, keys)
}

func (nativeEngine) DecryptInMemoryWithFragmentsInfo(data, fragmentsInfo []byte, keyIDs, keys []string) (int, []byte, error) {
	return bindings.DecryptInMemoryWithFragmentsInfo(data, fragmentsInfo, keyIDs, keys)
}

// Decrypt decrypts an encrypted MP4-family stream with the given keys and
// returns the decrypted stream as a new buffer owned by the caller.
//
// Map keys identify what each key decrypts: either a 128-bit KID in hex for
// CENC-style schemes, or a decimal track index where KIDs do not apply (use
// track 1 for dcf files and track 0 for Marlin IPMP/ACGK). Map values are
// 128-bit keys in hex. Validity of ids and keys is adjudicated by the
// engine; both may carry any NUL-free text.
//
// fragmentsInfo optionally supplies track metadata read out-of-band from the
// main stream, as needed for fragmented containers whose init segment is
// stored separately. Pass nil when the stream is self-contained; an empty
// non-nil slice still selects the fragments-aware entry point.
//
// Both streams are limited to 2^32-1 bytes. Failures are *Error values
// except engine reachability, reported via ErrEngineUnavailable.
func Decrypt(data []byte, keys map[string]string, fragmentsInfo []byte) ([]byte, error) {
	return decrypt(nativeEngine{}, data, keys, fragmentsInfo)
}

func decrypt(eng engine, data []byte, keys map[string]string, fragmentsInfo []byte) ([]byte, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return nil, errDataTooLarge(false)
	}
	if fragmentsInfo != nil && uint64(len(fragmentsInfo)) > math.MaxUint32 {
		return nil, errDataTooLarge(true)
	}

	keyIDs, keyMaterials, merr := marshalKeys(keys)
	if merr != nil {
		return nil, merr
	}

	var (
		status int
		out    []byte
		err    error
	)
	if fragmentsInfo != nil {
		status, out, err = eng.DecryptInMemoryWithFragmentsInfo(data, fragmentsInfo, keyIDs, keyMaterials)
	} else {
		status, out, err = eng.DecryptInMemory(data, keyIDs, keyMaterials)
	}
	if err != nil {
		return nil, remapEngineErr(err)
	}
	if status != 0 {
		// Partial deliveries before a failure report carry no guarantee.
		return nil, translateStatus(status)
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}
