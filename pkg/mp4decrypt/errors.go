package mp4decrypt

import (
	"errors"
	"fmt"
)

// ErrEngineUnavailable indicates that no native engine backend could be
// reached: the binary was built without one and none could be loaded at
// runtime. It is wrapped, so test with errors.Is.
var ErrEngineUnavailable = errors.New("mp4decrypt: native engine unavailable")

// Kind classifies decryption failures.
type Kind int

const (
	// KindInvalidFormat covers malformed key ids and key hex, whether
	// rejected locally or by the engine.
	KindInvalidFormat Kind = iota + 1
	// KindDataTooLarge reports an input stream longer than the engine's
	// 32-bit size ceiling. Checked locally, before any native call.
	KindDataTooLarge
	// KindFailed carries any other non-zero engine status, with the raw
	// code preserved for diagnostics.
	KindFailed
)

// Engine statuses with dedicated meanings. Everything else is opaque.
const (
	statusInvalidKeyIDHex = 100
	statusInvalidKeyID    = 101
	statusInvalidKeyHex   = 102
)

// Error is the failure value returned by Decrypt for well-formed requests
// the engine (or a local precondition) rejected.
type Error struct {
	Kind Kind
	// Code is the raw engine status for KindFailed errors, zero otherwise.
	Code int
	msg  string
}

func (e *Error) Error() string { return e.msg }

// translateStatus maps a non-zero engine status to an Error. Total over all
// int inputs; status 0 never reaches it.
func translateStatus(status int) *Error {
	switch status {
	case statusInvalidKeyIDHex:
		return &Error{Kind: KindInvalidFormat, msg: "invalid hex format for key id."}
	case statusInvalidKeyID:
		return &Error{Kind: KindInvalidFormat, msg: "invalid key id."}
	case statusInvalidKeyHex:
		return &Error{Kind: KindInvalidFormat, msg: "invalid hex format for key."}
	default:
		return &Error{
			Kind: KindFailed,
			Code: status,
			msg:  fmt.Sprintf("failed to decrypt data with error code %d.", status),
		}
	}
}

func errDataTooLarge(fragments bool) *Error {
	if fragments {
		return &Error{Kind: KindDataTooLarge, msg: "the fragments info data stream is too large."}
	}
	return &Error{Kind: KindDataTooLarge, msg: "the input data stream is too large."}
}

// remapEngineErr converts bindings layer errors into the public availability
// error. The bindings error return carries only reachability failures, never
// engine verdicts, so everything maps onto ErrEngineUnavailable.
func remapEngineErr(err error) error {
	return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
}

// IsInvalidFormat reports whether err is a KindInvalidFormat decrypt error.
func IsInvalidFormat(err error) bool { return isKind(err, KindInvalidFormat) }

// IsDataTooLarge reports whether err is a KindDataTooLarge decrypt error.
func IsDataTooLarge(err error) bool { return isKind(err, KindDataTooLarge) }

// IsFailed reports whether err is a KindFailed decrypt error.
func IsFailed(err error) bool { return isKind(err, KindFailed) }

func isKind(err error, k Kind) bool {
	var derr *Error
	return errors.As(err, &derr) && derr.Kind == k
}
