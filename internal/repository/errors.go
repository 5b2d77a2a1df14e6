package repository

import "fmt"

// Kind classifies an Error so callers (and the CLI's exit-code mapping) can
// branch on failure category without string matching.
type Kind int

const (
	// KindInvalidArgument means the caller supplied a malformed or
	// out-of-range argument.
	KindInvalidArgument Kind = iota
	// KindNotFound means the requested path, key, or commit does not exist.
	KindNotFound
	// KindCrypto means an AEAD open, key derivation, or unwrap failed.
	KindCrypto
	// KindSerialization means a persisted file (crypto config, keystore,
	// journal, export envelope) could not be decoded.
	KindSerialization
	// KindIO means an underlying filesystem operation failed.
	KindIO
	// KindFeatureDisabled means the caller asked for functionality that was
	// compiled out or is unavailable in this build.
	KindFeatureDisabled
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindCrypto:
		return "crypto"
	case KindSerialization:
		return "serialization"
	case KindIO:
		return "io"
	case KindFeatureDisabled:
		return "feature_disabled"
	default:
		return "unknown"
	}
}

// Error is the typed error returned by every exported operation in this
// package. It carries a Kind so callers can distinguish, for example, a
// missing path from a corrupted keystore without parsing message text.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func invalidArgument(err error, format string, args ...any) *Error {
	return newError(KindInvalidArgument, err, format, args...)
}

func notFound(err error, format string, args ...any) *Error {
	return newError(KindNotFound, err, format, args...)
}

func cryptoErr(err error, format string, args ...any) *Error {
	return newError(KindCrypto, err, format, args...)
}

func serialization(err error, format string, args ...any) *Error {
	return newError(KindSerialization, err, format, args...)
}

func ioErr(err error, format string, args ...any) *Error {
	return newError(KindIO, err, format, args...)
}

func featureDisabled(err error, format string, args ...any) *Error {
	return newError(KindFeatureDisabled, err, format, args...)
}
