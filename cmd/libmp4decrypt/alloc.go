//go:build cgo

package main

/*
#include <stdlib.h>

// Plain malloc, reachable from Go without cgo's abort-on-failure wrapper,
// so allocation failure stays observable as NULL.
static void* mp4decrypt_malloc(size_t n) {
	return malloc(n);
}
*/
import "C"

import "unsafe"

// rawMalloc allocates n bytes from the raw process allocator. The caller of
// the C ABI releases the buffer with free(); the Go side never frees it.
func rawMalloc(n int) unsafe.Pointer {
	return C.mp4decrypt_malloc(C.size_t(n))
}
