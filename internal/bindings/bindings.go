package bindings

import (
	"bytes"
	"errors"
	"sync"
)

var (
	// ErrNotBuilt reports that no native engine backend was linked into the
	// current binary and none could be loaded at runtime. Callers can use
	// this to fall back to safer defaults.
	ErrNotBuilt = errors.New("mp4decrypt/internal/bindings: native engine not built")
)

// sink collects the decrypted stream delivered by the engine. The engine
// invokes the delivery callback at most once per call; anything after the
// first delivery is ignored.
type sink struct {
	mu        sync.Mutex
	data      []byte
	delivered bool
}

// write copies src into the sink. The source is engine-owned memory that is
// only valid while the callback runs, so the copy is mandatory.
func (s *sink) write(src []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delivered {
		return
	}
	s.delivered = true
	s.data = bytes.Clone(src)
}

// take returns the captured stream, nil if the engine never delivered.
func (s *sink) take() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// The registry maps fake-pointer handles to live sinks so the engine can
// address a Go object through a void* without violating pointer-passing
// rules.
type handle uintptr

var (
	mu   sync.Mutex
	next handle = 1
	reg         = map[handle]*sink{}
)

func put(s *sink) handle {
	mu.Lock()
	h := next
	next++
	reg[h] = s
	mu.Unlock()
	return h
}

func get(h handle) (*sink, bool) {
	mu.Lock()
	s, ok := reg[h]
	mu.Unlock()
	return s, ok
}

func del(h handle) {
	mu.Lock()
	delete(reg, h)
	mu.Unlock()
}
