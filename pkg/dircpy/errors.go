package dircpy

import (
	"errors"
	"fmt"
)

// Kind classifies why a copy failed.
type Kind int

// Exported constants.
const (
	// KindIOFailure covers every filesystem failure other than a missing source.
	KindIOFailure Kind = iota
	// KindInvalidArgument is returned for paths or patterns that are not valid UTF-8.
	KindInvalidArgument
	// KindNotFound is returned when the source directory does not exist.
	KindNotFound
)

// Exported variables.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrIOFailure       = errors.New("i/o failure")
	ErrNotFound        = errors.New("source not found")
)

// Error is the error returned by a failed copy.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Is reports whether target is the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindNotFound:
		return "not found"
	case KindIOFailure:
		return "io failure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindNotFound:
		return ErrNotFound
	default:
		return ErrIOFailure
	}
}

// KindOf returns the kind of err. Errors not produced by this package are
// reported as KindIOFailure.
func KindOf(err error) Kind {
	var copyErr *Error
	if errors.As(err, &copyErr) {
		return copyErr.Kind
	}

	return KindIOFailure
}

func invalidArgument(op, path string, err error) *Error {
	return &Error{Kind: KindInvalidArgument, Op: op, Path: path, Err: err}
}

func ioFailure(op, path string, err error) *Error {
	return &Error{Kind: KindIOFailure, Op: op, Path: path, Err: err}
}
