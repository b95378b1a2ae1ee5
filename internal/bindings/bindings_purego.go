//go:build !cgo && (linux || darwin)

package bindings

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// The purego backend loads the engine as a shared library at first use, so
// pure-Go builds (CGO_ENABLED=0, cross-compiles) keep working wherever a
// libmp4decrypt build is present on the host.

var (
	loadOnce sync.Once
	loadErr  error

	engineDecrypt func(data uintptr, dataSize uint32,
		keyIDs, keys uintptr, nkeys int32,
		sink uintptr, deliver uintptr) int32

	engineDecryptWithFragmentsInfo func(data uintptr, dataSize uint32,
		keyIDs, keys uintptr, nkeys int32,
		sink uintptr, deliver uintptr,
		fragmentsInfo uintptr, fragmentsInfoSize uint32) int32

	deliverCallback uintptr
)

// Backend reports which engine backend this binary carries.
func Backend() string { return "purego" }

func libraryCandidates() []string {
	libName := "libmp4decrypt.so"
	if runtime.GOOS == "darwin" {
		libName = "libmp4decrypt.dylib"
	}

	var paths []string
	if p := os.Getenv("MP4DECRYPT_LIBRARY"); p != "" {
		paths = append(paths, p)
	}
	if dir := os.Getenv("BENTO4_DIR"); dir != "" {
		paths = append(paths, filepath.Join(dir, "lib", libName))
	}
	paths = append(paths,
		libName,
		filepath.Join("/usr/local/lib", libName),
	)
	if runtime.GOOS == "darwin" {
		paths = append(paths, filepath.Join("/opt/homebrew/lib", libName))
	}
	return paths
}

func load() error {
	loadOnce.Do(func() {
		var lib uintptr
		var lastErr error
		for _, path := range libraryCandidates() {
			h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
			if err == nil {
				lib = h
				break
			}
			lastErr = err
		}
		if lib == 0 {
			loadErr = fmt.Errorf("%w: %v", ErrNotBuilt, lastErr)
			return
		}
		purego.RegisterLibFunc(&engineDecrypt, lib, "decrypt_in_memory")
		purego.RegisterLibFunc(&engineDecryptWithFragmentsInfo, lib, "decrypt_in_memory_with_fragments_info")
		deliverCallback = purego.NewCallback(deliver)
	})
	return loadErr
}

// deliver is the delivery callback handed to the engine. The sink argument
// is a registry handle; the data region is engine-owned and only valid until
// this function returns.
func deliver(sinkPtr, data uintptr, size uint32) {
	s, ok := get(handle(sinkPtr))
	if !ok {
		return
	}
	if data == 0 || size == 0 {
		s.write(nil)
		return
	}
	s.write(unsafe.Slice((*byte)(unsafe.Pointer(data)), int64(size)))
}

// DecryptInMemory performs one synchronous call into the plain engine entry
// point. Callers guarantee len(data) fits in uint32 and that key strings are
// free of NUL bytes. The returned int is the raw engine status; the byte
// slice is whatever the engine delivered, regardless of status.
func DecryptInMemory(data []byte, keyIDs, keys []string) (int, []byte, error) {
	if err := load(); err != nil {
		return 0, nil, err
	}
	s := &sink{}
	h := put(s)
	defer del(h)

	idBufs, idPtrs := nulTerminated(keyIDs)
	keyBufs, keyPtrs := nulTerminated(keys)

	rc := engineDecrypt(
		bytesPtr(data), uint32(len(data)),
		ptrArray(idPtrs), ptrArray(keyPtrs), int32(len(keyIDs)),
		uintptr(h), deliverCallback,
	)
	zeroizeAll(keyBufs)
	runtime.KeepAlive(data)
	runtime.KeepAlive(idBufs)
	runtime.KeepAlive(idPtrs)
	runtime.KeepAlive(keyPtrs)
	return int(rc), s.take(), nil
}

// DecryptInMemoryWithFragmentsInfo is DecryptInMemory routed through the
// fragments-aware entry point, with track metadata read from fragmentsInfo.
func DecryptInMemoryWithFragmentsInfo(data, fragmentsInfo []byte, keyIDs, keys []string) (int, []byte, error) {
	if err := load(); err != nil {
		return 0, nil, err
	}
	s := &sink{}
	h := put(s)
	defer del(h)

	idBufs, idPtrs := nulTerminated(keyIDs)
	keyBufs, keyPtrs := nulTerminated(keys)

	rc := engineDecryptWithFragmentsInfo(
		bytesPtr(data), uint32(len(data)),
		ptrArray(idPtrs), ptrArray(keyPtrs), int32(len(keyIDs)),
		uintptr(h), deliverCallback,
		bytesPtr(fragmentsInfo), uint32(len(fragmentsInfo)),
	)
	zeroizeAll(keyBufs)
	runtime.KeepAlive(data)
	runtime.KeepAlive(fragmentsInfo)
	runtime.KeepAlive(idBufs)
	runtime.KeepAlive(idPtrs)
	runtime.KeepAlive(keyPtrs)
	return int(rc), s.take(), nil
}

// nulTerminated copies each string into a NUL-terminated buffer and returns
// the buffers alongside their base addresses. The buffers must be kept alive
// for as long as the engine may read the addresses.
func nulTerminated(items []string) ([][]byte, []uintptr) {
	bufs := make([][]byte, len(items))
	ptrs := make([]uintptr, len(items))
	for i, s := range items {
		b := make([]byte, len(s)+1)
		copy(b, s)
		bufs[i] = b
		ptrs[i] = uintptr(unsafe.Pointer(&b[0]))
	}
	return bufs, ptrs
}

func bytesPtr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

func ptrArray(ptrs []uintptr) uintptr {
	if len(ptrs) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&ptrs[0]))
}
