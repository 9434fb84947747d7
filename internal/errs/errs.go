// Package errs classifies errors crossing component boundaries.
//
// The ledger core distinguishes four outcomes that callers must treat
// differently: invalid input (never retried), internal inconsistency
// (fatal, indicates corrupted data upstream), transient I/O failure
// (retried by the sync processor only), and duplicate replay (treated
// as success). Storage lookups additionally surface not-found and
// permission kinds so the transport layer can map them to status codes.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies how an error must be handled by the caller.
type Kind uint8

const (
	// KindValidation marks malformed or inconsistent input. Never retried.
	KindValidation Kind = iota + 1
	// KindConsistency marks a violated ledger invariant. Fatal; must not
	// be silently patched over.
	KindConsistency
	// KindTransientIO marks network/storage unavailability. Retryable.
	KindTransientIO
	// KindDuplicate marks a replay of an already-applied operation.
	// Callers treat it as success.
	KindDuplicate
	// KindNotFound marks a missing record.
	KindNotFound
	// KindPermission marks an operation the caller is not allowed to make.
	KindPermission
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConsistency:
		return "consistency"
	case KindTransientIO:
		return "transient_io"
	case KindDuplicate:
		return "duplicate"
	case KindNotFound:
		return "not_found"
	case KindPermission:
		return "permission"
	default:
		return "unknown"
	}
}

// Error is a classified error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Msg == "" {
			return e.Err.Error()
		}
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a classified error with the given message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf returns a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an existing error, keeping it unwrappable.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf reports the classification of err, or 0 if it carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsTransient reports whether err should be retried.
func IsTransient(err error) bool { return KindOf(err) == KindTransientIO }

// IsDuplicate reports whether err is a replay of an applied operation.
func IsDuplicate(err error) bool { return KindOf(err) == KindDuplicate }

// IsValidation reports whether err is a caller input error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
