// Package errors wraps github.com/go-errors/errors so that every error
// created inside keyscreen carries the stack of its origin.
package errors

import (
	"errors"

	errorsGo "github.com/go-errors/errors"
)

var ErrUnsupported = errors.ErrUnsupported

type Error = errorsGo.Error

func As(err error, target any) bool { return errorsGo.As(err, target) }

func Is(err, target error) bool { return errorsGo.Is(err, target) }

func Unwrap(err error) error { return errorsGo.Unwrap(err) }

// New returns nil for a nil argument, unlike github.com/go-errors/errors.New.
// An error that already carries a stack is returned unchanged.
func New(obj any) *Error {
	if obj == nil {
		return nil
	}
	if errGo, ok := obj.(*errorsGo.Error); ok {
		return errGo
	}
	return errorsGo.Wrap(obj, 1)
}

func Errorf(format string, a ...any) *Error { return errorsGo.Errorf(format, a...) }

func Wrap(e any, skip int) *Error { return errorsGo.Wrap(e, skip+1) }

// WrapPrefix keeps the original error reachable through errors.Is/As.
func WrapPrefix(e any, prefix string, skip int) *Error {
	return errorsGo.WrapPrefix(e, prefix, skip+1)
}

func Join(errs ...error) error {
	err := errors.Join(errs...)
	if err == nil {
		return nil
	}
	return errorsGo.Wrap(err, 1)
}

// Stack returns the stack trace of err if it has one.
func Stack(err error) (string, bool) {
	var errGo *errorsGo.Error
	if !errorsGo.As(err, &errGo) {
		return ``, false
	}
	return errGo.ErrorStack(), true
}
