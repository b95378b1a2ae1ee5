// Package mp4decrypt decrypts encrypted MP4-family streams by delegating
// container parsing and cryptography to the native Bento4-based engine. The
// package compiles without the engine present; Decrypt then fails with
// ErrEngineUnavailable so downstream projects can degrade gracefully instead
// of breaking their builds.
package mp4decrypt
