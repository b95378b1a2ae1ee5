//go:build cgo

// libmp4decrypt exposes the decrypt wrapper to foreign callers through a
// C ABI. Build it as a shared library:
//
//	go build -buildmode=c-shared -o libmp4decryptgo.so ./cmd/libmp4decrypt
//
// The generated header declares mp4decrypt_capi and the mp4decrypt_error
// record. Every buffer and message string handed to the caller comes from
// the raw process allocator and must be released by the caller with free().
package main

/*
#include <stdlib.h>
#include <string.h>

typedef struct mp4decrypt_error {
	int   code;
	char* message;
} mp4decrypt_error;
*/
import "C"

import (
	"unicode/utf8"
	"unsafe"

	"github.com/streamkit/mp4decrypt-go/pkg/mp4decrypt"
)

// decryptFn is the wrapper entry point, held in a variable so the package
// tests can stand in an engine-free fake.
var decryptFn = mp4decrypt.Decrypt

// mp4decrypt_capi decrypts an encrypted MP4-family stream.
//
// data_ptr/data_len describe the encrypted stream. keys_json_ptr is a
// NUL-terminated UTF-8 string holding a flat JSON object that maps key ids
// (hex KIDs or decimal track indexes) to hex keys. fragments_ptr and
// fragments_len optionally carry out-of-band track metadata; they count as
// present only when the pointer is non-null and the length non-zero.
//
// Return value:
//
//	 0  success; *out_ptr/*out_len describe a malloc'd buffer the caller
//	    must free()
//	-1  data_ptr, keys_json_ptr, out_ptr or out_len was null
//	-2  keys_json is not valid UTF-8
//	-3  keys_json is not a JSON object of string to string
//	-4  output buffer allocation failed
//	 1  decryption failed; *err_out (when err_out is non-null) holds the
//	    code and a malloc'd message the caller must free()
//
// The adapter never frees what it handed out and never reads out_ptr,
// out_len or err_out after returning.
//
//export mp4decrypt_capi
func mp4decrypt_capi(dataPtr *C.uchar, dataLen C.size_t, keysJSONPtr *C.char,
	fragmentsPtr *C.uchar, fragmentsLen C.size_t,
	outPtr **C.uchar, outLen *C.size_t, errOut *C.mp4decrypt_error) C.int {

	if dataPtr == nil || keysJSONPtr == nil || outPtr == nil || outLen == nil {
		return statusNullArgument
	}

	keysJSON := C.GoString(keysJSONPtr)
	if !utf8.ValidString(keysJSON) {
		setErr(errOut, statusInvalidUTF8, "Invalid UTF-8 in keys_json")
		return statusInvalidUTF8
	}
	keys, ok := parseKeysJSON(keysJSON)
	if !ok {
		setErr(errOut, statusInvalidJSON, "Failed to parse keys JSON")
		return statusInvalidJSON
	}

	// The input buffers are borrowed from the caller for the duration of
	// this call, not copied.
	data := unsafe.Slice((*byte)(unsafe.Pointer(dataPtr)), int64(dataLen))
	var fragmentsInfo []byte
	if fragmentsPtr != nil && fragmentsLen > 0 {
		fragmentsInfo = unsafe.Slice((*byte)(unsafe.Pointer(fragmentsPtr)), int64(fragmentsLen))
	}

	out, err := decryptFn(data, keys, fragmentsInfo)
	if err != nil {
		code, msg := errorRecord(err)
		setErr(errOut, C.int(code), msg)
		return statusDecryptFailed
	}

	// A one-byte allocation for empty outputs keeps NULL unambiguous: a
	// null *out_ptr never accompanies status 0.
	n := len(out)
	allocLen := n
	if allocLen == 0 {
		allocLen = 1
	}
	buf := rawMalloc(allocLen)
	if buf == nil {
		return statusAllocFailed
	}
	if n > 0 {
		C.memcpy(buf, unsafe.Pointer(&out[0]), C.size_t(n))
	}
	*outPtr = (*C.uchar)(buf)
	*outLen = C.size_t(n)
	return statusOK
}

func setErr(errOut *C.mp4decrypt_error, code C.int, msg string) {
	if errOut == nil {
		return
	}
	errOut.code = code
	errOut.message = C.CString(msg)
}

// main is required for -buildmode=c-shared; the entry point is the exported
// function above.
func main() {}
