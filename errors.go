package cindex

import (
	"errors"
	"fmt"
)

// Sentinel errors carried by UsageError.
var (
	// ErrDisposed reports use of an object after it, or an owner above it,
	// was closed.
	ErrDisposed = errors.New("object has been disposed")
	// ErrStale reports use of a cursor or location taken before the
	// translation unit was reparsed.
	ErrStale = errors.New("object predates the last reparse")
	// ErrNilVisitor reports a traversal started without a visitor.
	ErrNilVisitor = errors.New("visitor is nil")
	// ErrInvalidArgument reports an argument the operation cannot accept.
	ErrInvalidArgument = errors.New("invalid argument")
)

// UsageError is returned, or panicked with from plain accessors, when the
// API is used incorrectly.
type UsageError struct {
	Op  string
	Err error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("cindex: %s: %v", e.Op, e.Err)
}

func (e *UsageError) Unwrap() error { return e.Err }

// ErrorCode is the outcome reported by the native front-end.
type ErrorCode int

const (
	ErrorSuccess ErrorCode = iota
	ErrorFailure
	ErrorCrashed
	ErrorInvalidArguments
	ErrorASTReadError
)

var errorCodeNames = [...]string{
	ErrorSuccess:          "success",
	ErrorFailure:          "failure",
	ErrorCrashed:          "crashed",
	ErrorInvalidArguments: "invalid arguments",
	ErrorASTReadError:     "AST read error",
}

func (c ErrorCode) String() string {
	if c >= 0 && int(c) < len(errorCodeNames) {
		return errorCodeNames[c]
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// NativeError is a failure reported by the native front-end. It is never
// retried.
type NativeError struct {
	Op   string
	Code ErrorCode
	Err  error // underlying detail, may be nil
}

func (e *NativeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cindex: %s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("cindex: %s: %s", e.Op, e.Code)
}

func (e *NativeError) Unwrap() error { return e.Err }

// IsCrash reports whether err is a NativeError for a front-end crash.
func IsCrash(err error) bool {
	var ne *NativeError
	return errors.As(err, &ne) && ne.Code == ErrorCrashed
}
