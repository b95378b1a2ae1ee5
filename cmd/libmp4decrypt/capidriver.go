//go:build cgo

package main

/*
#include <stdlib.h>

typedef struct mp4decrypt_error {
	int   code;
	char* message;
} mp4decrypt_error;
*/
import "C"

import (
	"bytes"
	"unsafe"
)

// Test files cannot use cgo, so the drivers below give the package's tests a
// Go-native way to call mp4decrypt_capi. They are unused outside the tests.

// capiErrSentinel pre-fills the error record's code field so tests can tell
// whether a call wrote to it.
const capiErrSentinel = -9999

// capiResult captures everything one mp4decrypt_capi call wrote back.
type capiResult struct {
	status  int
	out     []byte
	errCode int
	errMsg  string
	errSet  bool
}

// callCAPI drives the exported adapter. A nil data or keysJSON forwards a
// null pointer so the argument checks are reachable; fragments is forwarded
// only when non-empty. Everything allocated for the call, and everything the
// adapter handed back, is released before returning.
func callCAPI(data, keysJSON, fragments []byte) capiResult {
	var dataPtr *C.uchar
	if data != nil {
		p := C.CBytes(data)
		defer C.free(p)
		dataPtr = (*C.uchar)(p)
	}

	var keysPtr *C.char
	if keysJSON != nil {
		terminated := make([]byte, len(keysJSON)+1)
		copy(terminated, keysJSON)
		p := C.CBytes(terminated)
		defer C.free(p)
		keysPtr = (*C.char)(p)
	}

	var fragPtr *C.uchar
	if len(fragments) > 0 {
		p := C.CBytes(fragments)
		defer C.free(p)
		fragPtr = (*C.uchar)(p)
	}

	var outPtr *C.uchar
	var outLen C.size_t
	var errRec C.mp4decrypt_error
	errRec.code = C.int(capiErrSentinel)

	status := mp4decrypt_capi(dataPtr, C.size_t(len(data)), keysPtr,
		fragPtr, C.size_t(len(fragments)), &outPtr, &outLen, &errRec)

	res := capiResult{status: int(status), errCode: int(errRec.code)}
	if outPtr != nil {
		res.out = bytes.Clone(unsafe.Slice((*byte)(unsafe.Pointer(outPtr)), int64(outLen)))
		C.free(unsafe.Pointer(outPtr))
	}
	if errRec.message != nil {
		res.errSet = true
		res.errMsg = C.GoString(errRec.message)
		C.free(unsafe.Pointer(errRec.message))
	}
	return res
}

// callCAPINullOut calls the adapter with valid inputs but a null out_ptr.
func callCAPINullOut() int {
	dp := C.CBytes([]byte{0x00})
	defer C.free(dp)
	kp := C.CString(`{"1":"00"}`)
	defer C.free(unsafe.Pointer(kp))

	var outLen C.size_t
	return int(mp4decrypt_capi((*C.uchar)(dp), 1, kp, nil, 0, nil, &outLen, nil))
}

// callCAPINoErrOut calls the adapter with a null err_out record; failures
// must still report their status without writing anywhere.
func callCAPINoErrOut(keysJSON string) int {
	dp := C.CBytes([]byte{0x00})
	defer C.free(dp)
	kp := C.CString(keysJSON)
	defer C.free(unsafe.Pointer(kp))

	var outPtr *C.uchar
	var outLen C.size_t
	status := mp4decrypt_capi((*C.uchar)(dp), 1, kp, nil, 0, &outPtr, &outLen, nil)
	if outPtr != nil {
		C.free(unsafe.Pointer(outPtr))
	}
	return int(status)
}
