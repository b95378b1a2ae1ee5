//go:build cgo && !windows

package bindings

import "C"

import "unsafe"

// mp4decrypt_go_deliver is the delivery callback handed to the engine. The
// sink argument is a registry handle, not a real pointer. The data region is
// engine-owned and only valid until this function returns.
//
//export mp4decrypt_go_deliver
func mp4decrypt_go_deliver(sinkPtr unsafe.Pointer, data *C.uchar, size C.uint) {
	s, ok := get(handle(uintptr(sinkPtr)))
	if !ok {
		return
	}
	if data == nil || size == 0 {
		s.write(nil)
		return
	}
	s.write(unsafe.Slice((*byte)(unsafe.Pointer(data)), int64(size)))
}
