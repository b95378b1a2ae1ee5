// Package bindings contains every crossing into the native mp4decrypt
// engine (the Bento4 in-memory decryption API).
//
// # Design Principles
//
// 1. Isolation: all native-boundary code in the library lives in this
//    package. The only other place that imports "C" is the c-shared
//    adapter in cmd/libmp4decrypt, which is a main package and not
//    importable.
//
// 2. Minimal Surface: the engine exposes two entry points and a delivery
//    callback; this package exposes exactly those and nothing else.
//
// 3. Error Handling: native status codes are plain ints here. They are
//    engine results, not infrastructure failures, and are translated into
//    Go errors one layer up. The error return of each call reports only
//    whether the engine could be reached at all.
//
// 4. Memory Management: the engine borrows the input buffers and key
//    strings for the duration of one synchronous call. Everything handed
//    to it is either pinned Go memory (cgo backend) or NUL-terminated
//    buffers kept alive across the call (purego backend). The decrypted
//    stream is copied out of native memory inside the delivery callback,
//    before the call returns.
//
// 5. No Native Handles in Go: the sink the engine calls back into is a
//    fake-pointer handle into a Go-side registry, never a real Go pointer.
//
// # Backends
//
// Three interchangeable backends, selected by build tags: cgo (linked
// engine), purego (dlopen at runtime, no cgo), and a stub that reports
// ErrNotBuilt. The purego backend honors MP4DECRYPT_LIBRARY and
// BENTO4_DIR when locating the shared library.
package bindings
