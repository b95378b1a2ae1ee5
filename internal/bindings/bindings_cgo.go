//go:build cgo && !windows

package bindings

/*
#cgo LDFLAGS: -L${SRCDIR}/../../native/lib -lmp4decrypt -lap4
#cgo linux LDFLAGS: -lstdc++ -lm
#cgo darwin LDFLAGS: -lc++
#include <stdlib.h>
#include <string.h>

typedef void (*mp4decrypt_deliver_cb)(void* sink, const unsigned char* data, unsigned int size);

extern int decrypt_in_memory(
	const unsigned char* data, unsigned int data_size,
	const char** key_ids, const char** keys, int nkeys,
	void* sink, mp4decrypt_deliver_cb deliver);

extern int decrypt_in_memory_with_fragments_info(
	const unsigned char* data, unsigned int data_size,
	const char** key_ids, const char** keys, int nkeys,
	void* sink, mp4decrypt_deliver_cb deliver,
	const unsigned char* fragments_info, unsigned int fragments_info_size);

extern void mp4decrypt_go_deliver(void* sink, unsigned char* data, unsigned int size);

static int mp4decrypt_run(
	const unsigned char* data, unsigned int data_size,
	const char** key_ids, const char** keys, int nkeys,
	void* sink) {
	return decrypt_in_memory(data, data_size, key_ids, keys, nkeys, sink,
		(mp4decrypt_deliver_cb)mp4decrypt_go_deliver);
}

static int mp4decrypt_run_with_fragments_info(
	const unsigned char* data, unsigned int data_size,
	const char** key_ids, const char** keys, int nkeys,
	void* sink,
	const unsigned char* fragments_info, unsigned int fragments_info_size) {
	return decrypt_in_memory_with_fragments_info(data, data_size, key_ids, keys, nkeys, sink,
		(mp4decrypt_deliver_cb)mp4decrypt_go_deliver,
		fragments_info, fragments_info_size);
}
*/
import "C"

import (
	"runtime"
	"unsafe"
)

// Backend reports which engine backend this binary carries.
func Backend() string { return "cgo" }

// DecryptInMemory performs one synchronous call into the plain engine entry
// point. Callers guarantee len(data) fits in uint32 and that key strings are
// free of NUL bytes. The returned int is the raw engine status; the byte
// slice is whatever the engine delivered, regardless of status.
func DecryptInMemory(data []byte, keyIDs, keys []string) (int, []byte, error) {
	s := &sink{}
	h := put(s)
	defer del(h)

	cKeyIDs := cStringArray(keyIDs)
	defer freeCStringArray(cKeyIDs)
	cKeys := cStringArray(keys)
	defer freeSecretCStringArray(cKeys)

	rc := C.mp4decrypt_run(
		dataPtr(data), C.uint(len(data)),
		stringArrayPtr(cKeyIDs), stringArrayPtr(cKeys), C.int(len(cKeyIDs)),
		unsafe.Pointer(uintptr(h)),
	)
	runtime.KeepAlive(data)
	return int(rc), s.take(), nil
}

// DecryptInMemoryWithFragmentsInfo is DecryptInMemory routed through the
// fragments-aware entry point, with track metadata read from fragmentsInfo.
func DecryptInMemoryWithFragmentsInfo(data, fragmentsInfo []byte, keyIDs, keys []string) (int, []byte, error) {
	s := &sink{}
	h := put(s)
	defer del(h)

	cKeyIDs := cStringArray(keyIDs)
	defer freeCStringArray(cKeyIDs)
	cKeys := cStringArray(keys)
	defer freeSecretCStringArray(cKeys)

	rc := C.mp4decrypt_run_with_fragments_info(
		dataPtr(data), C.uint(len(data)),
		stringArrayPtr(cKeyIDs), stringArrayPtr(cKeys), C.int(len(cKeyIDs)),
		unsafe.Pointer(uintptr(h)),
		dataPtr(fragmentsInfo), C.uint(len(fragmentsInfo)),
	)
	runtime.KeepAlive(data)
	runtime.KeepAlive(fragmentsInfo)
	return int(rc), s.take(), nil
}

func cStringArray(items []string) []*C.char {
	arr := make([]*C.char, len(items))
	for i, s := range items {
		arr[i] = C.CString(s)
	}
	return arr
}

func freeCStringArray(arr []*C.char) {
	for _, p := range arr {
		C.free(unsafe.Pointer(p))
	}
}

// freeSecretCStringArray clears each string before the memory returns to the
// allocator. Key material goes through here.
func freeSecretCStringArray(arr []*C.char) {
	for _, p := range arr {
		if p != nil {
			C.memset(unsafe.Pointer(p), 0, C.strlen(p))
		}
		C.free(unsafe.Pointer(p))
	}
}

func dataPtr(b []byte) *C.uchar {
	if len(b) == 0 {
		return nil
	}
	return (*C.uchar)(unsafe.Pointer(&b[0]))
}

func stringArrayPtr(arr []*C.char) **C.char {
	if len(arr) == 0 {
		return nil
	}
	return (**C.char)(unsafe.Pointer(&arr[0]))
}
