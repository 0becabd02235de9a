package texture

import (
	"errors"
	"fmt"
	"io"
)

// Error kinds. Every error returned by this package matches exactly one of
// these with errors.Is.
var (
	ErrUnreadable        = errors.New("unreadable file")
	ErrUnrecognized      = errors.New("unrecognized format")
	ErrFileTooNew        = errors.New("file too new")
	ErrCorrupt           = errors.New("corrupt file")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidRequest    = errors.New("invalid request")
)

// Error carries the kind of a failure together with the file it came from
// and a human readable reason.
type Error struct {
	Kind   error
	Path   string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Path != "" {
		return e.Path + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the error kind of err, or nil if err did not come from
// this package.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, kind := range []error{ErrUnreadable, ErrUnrecognized, ErrFileTooNew, ErrCorrupt, ErrUnsupportedFormat, ErrInvalidRequest} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func corruptf(format string, args ...any) *Error {
	return newError(ErrCorrupt, format, args...)
}

// ioError classifies a read failure. Running out of bytes inside a
// structure means the file is corrupt; anything else is an I/O problem.
func ioError(what string, err error) *Error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Kind: ErrCorrupt, Reason: "truncated " + what}
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: ErrUnreadable, Reason: "read " + what, Err: err}
}

// withPath attaches path to err, converting foreign errors to ErrUnreadable.
func withPath(path string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Path != "" {
			return e
		}
		c := *e
		c.Path = path
		return &c
	}
	return &Error{Kind: ErrUnreadable, Path: path, Err: err}
}
