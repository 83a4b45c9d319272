// Package apperr defines the stable error taxonomy carried across the
// core's port boundaries (spec §7). Callers switch on Kind rather than
// matching error strings.
package apperr

import "fmt"

// Kind is a stable, comparable error classification.
type Kind string

const (
	KindInvalidArgument   Kind = "INVALID_ARGUMENT"
	KindParseError        Kind = "PARSE_ERROR"
	KindNotFound          Kind = "NOT_FOUND"
	KindConflict          Kind = "CONFLICT"
	KindPreconditionFailed Kind = "PRECONDITION_FAILED"
	KindLedgerError       Kind = "LEDGER_ERROR"
	KindStoreError        Kind = "STORE_ERROR"
)

// Error is the core's error type. It wraps an optional cause and is
// comparable by Kind via Is.
type Error struct {
	Kind    Kind
	Message string
	Line    int // non-zero for ParseError raised during import
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Kind, so callers
// can do errors.Is(err, apperr.New(apperr.KindNotFound, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an *Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// WithLine attaches a source line number (used by the import validator)
// and returns the receiver for chaining.
func (e *Error) WithLine(line int) *Error {
	e.Line = line
	return e
}

// InvalidArgument is a convenience constructor for constructor-level
// precondition violations.
func InvalidArgument(message string) *Error {
	return New(KindInvalidArgument, message)
}

// ParseErrorAt builds a ParseError carrying the originating line number.
func ParseErrorAt(line int, message string, cause error) *Error {
	return Wrap(KindParseError, message, cause).WithLine(line)
}

// NotFound builds a NotFound error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Conflict builds a Conflict error (surfaced as a warning, not failure,
// by the mapping learner).
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// PreconditionFailed builds a PreconditionFailed error.
func PreconditionFailed(message string) *Error {
	return New(KindPreconditionFailed, message)
}

// LedgerErrorFrom wraps a transport/remote-ledger failure.
func LedgerErrorFrom(message string, cause error) *Error {
	return Wrap(KindLedgerError, message, cause)
}

// StoreErrorFrom wraps a mapping-store persistence failure.
func StoreErrorFrom(message string, cause error) *Error {
	return Wrap(KindStoreError, message, cause)
}
