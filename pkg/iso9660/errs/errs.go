// Package errs defines the typed error taxonomy used across pkg/iso9660.
// It formalizes the fmt.Errorf("...: %w", err) wrapping idiom already used
// throughout pkg/iso9660/parser and pkg/iso9660/descriptor into a sentinel
// comparable via errors.Is/errors.As.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies the failure so callers can branch on errors.Is without
// parsing message text.
type Kind int

const (
	// MalformedImage means the bytes read from a reader do not form a
	// valid ECMA-119 structure (bad signature, LE/BE mismatch, broken
	// checksum, unterminated SUSP continuation chain, etc).
	MalformedImage Kind = iota
	// Unsupported means the image uses a feature this engine deliberately
	// does not implement (Volume Partition Descriptors, non-primary
	// path table locations, images addressing more than 2^32-1 blocks).
	Unsupported
	// InvalidName means a caller-supplied identifier fails ECMA-119
	// character-set or length validation.
	InvalidName
	// InvalidRequest means a caller asked for an operation that cannot
	// apply to the given path or argument (adding a file where a
	// directory already exists, removing a non-empty directory, linking
	// to a target that doesn't exist).
	InvalidRequest
	// StateError means the session isn't in a state that permits the
	// requested operation (writing a session still open read-only,
	// looking up a path before Open/NewSession completed).
	StateError
)

func (k Kind) String() string {
	switch k {
	case MalformedImage:
		return "malformed image"
	case Unsupported:
		return "unsupported"
	case InvalidName:
		return "invalid name"
	case InvalidRequest:
		return "invalid request"
	case StateError:
		return "state error"
	default:
		return "unknown"
	}
}

// Error is the typed error returned by pkg/iso9660 and its subpackages.
type Error struct {
	Kind    Kind
	Op      string
	Path    string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, errs.Kind) style checks work by comparing Kind
// against another *Error's Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New builds an *Error with no wrapped cause.
func New(kind Kind, op, path string) *Error {
	return &Error{Kind: kind, Op: op, Path: path}
}

// Wrap builds an *Error wrapping cause.
func Wrap(kind Kind, op, path string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Cause: cause}
}

// Wrapf wraps cause after formatting it through fmt.Errorf, matching the
// teacher's existing fmt.Errorf("...: %w", err) call sites so existing
// wrapping chains keep working under errors.Is/errors.As.
func Wrapf(kind Kind, op, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Cause: fmt.Errorf(format, args...)}
}

// sentinels for errors.Is(err, errs.ErrMalformedImage) style checks against
// a bare Kind without constructing a full comparison *Error.
var (
	ErrMalformedImage  = &Error{Kind: MalformedImage}
	ErrUnsupported     = &Error{Kind: Unsupported}
	ErrInvalidName     = &Error{Kind: InvalidName}
	ErrInvalidRequest  = &Error{Kind: InvalidRequest}
	ErrStateError      = &Error{Kind: StateError}
)
