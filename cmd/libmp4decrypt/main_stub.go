//go:build !cgo

package main

import "log"

func main() {
	log.Fatal("libmp4decrypt is a c-shared library and requires cgo; rebuild with CGO_ENABLED=1")
}
