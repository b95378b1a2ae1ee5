package bindings

import "runtime"

// zeroize overwrites buf with zeros; the runtime.KeepAlive prevents dead
// store elimination (golang/go#33325). Go's collector may still hold earlier
// copies, so this clears the known buffer only.
func zeroize(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}

// zeroizeAll clears every buffer in bufs. Key material marshalled for the
// engine goes through here once the call returns.
func zeroizeAll(bufs [][]byte) {
	for _, b := range bufs {
		zeroize(b)
	}
}
