package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed interface lookup
type ErrorKind string

const (
	KindDecompileFailed   ErrorKind = "decompile_failed"
	KindMalformedSelector ErrorKind = "malformed_selector"
	KindStoreWriteFailed  ErrorKind = "store_write_failed"
	KindStoreReadFailed   ErrorKind = "store_read_failed"
)

// Sentinels matched by errors.Is against an *Error of the same kind
var (
	ErrDecompileFailed   = errors.New("decompile failed")
	ErrMalformedSelector = errors.New("malformed selector")
	ErrStoreWriteFailed  = errors.New("store write failed")
	ErrStoreReadFailed   = errors.New("store read failed")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindDecompileFailed:
		return ErrDecompileFailed
	case KindMalformedSelector:
		return ErrMalformedSelector
	case KindStoreWriteFailed:
		return ErrStoreWriteFailed
	case KindStoreReadFailed:
		return ErrStoreReadFailed
	default:
		return nil
	}
}

// Error is returned by InterfaceService for every failed lookup
type Error struct {
	Kind ErrorKind
	Key  string
	Err  error
}

func newError(kind ErrorKind, key string, err error) *Error {
	return &Error{Kind: kind, Key: key, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (key %s)", e.Kind, e.Key)
	}
	return fmt.Sprintf("%s (key %s): %v", e.Kind, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind
func (e *Error) Is(target error) bool {
	sentinel := e.Kind.sentinel()
	return sentinel != nil && target == sentinel
}

// KindOf extracts the ErrorKind from err, if err carries one
func KindOf(err error) (ErrorKind, bool) {
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Kind, true
	}
	return "", false
}
