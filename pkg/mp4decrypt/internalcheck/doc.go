// Package internalcheck holds source-level policy tests for the module.
//
// The tests enforce layering rules that ordinary compilation cannot: cgo and
// unsafe stay confined to the bindings layer and the C adapter, so every
// other package builds and ports as pure Go.
//
// # Internal Use Only
//
// Nothing here is part of the public API and the checks may change without
// notice.
package internalcheck
