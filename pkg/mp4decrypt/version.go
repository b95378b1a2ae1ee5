package mp4decrypt

import "github.com/streamkit/mp4decrypt-go/internal/bindings"

var (
	Version   = "v0.0.0-dev"
	EngineSHA = "unknown"
)

// WrapperVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-dev.
func WrapperVersion() string {
	return Version
}

// EngineBackend reports which engine backend this binary carries: "cgo",
// "purego", or "unavailable".
func EngineBackend() string {
	return bindings.Backend()
}

// EngineVersion returns the pinned upstream Bento4 commit SHA the bindings
// target. The engine itself exposes no version call.
func EngineVersion() string {
	return EngineSHA
}
