//go:build windows || (!cgo && !linux && !darwin)

package bindings

// Stub implementations for platforms with neither a linked engine nor
// dlopen support. These allow the package to compile but return ErrNotBuilt
// when called.

// Backend reports which engine backend this binary carries.
func Backend() string { return "unavailable" }

func DecryptInMemory([]byte, []string, []string) (int, []byte, error) {
	return 0, nil, ErrNotBuilt
}

func DecryptInMemoryWithFragmentsInfo([]byte, []byte, []string, []string) (int, []byte, error) {
	return 0, nil, ErrNotBuilt
}
